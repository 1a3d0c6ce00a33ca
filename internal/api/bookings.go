package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pverberg/frontdesk/internal/domain"
)

type bookingListResponse struct {
	Items      []domain.Booking `json:"items"`
	TotalCount int              `json:"total_count"`
}

// GetBookings fetches one offset window of bookings.
func (c *Client) GetBookings(ctx context.Context, offset, limit int) ([]domain.Booking, int, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var payload bookingListResponse
	if err := c.do(ctx, http.MethodGet, "/bookings", query, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Items, payload.TotalCount, nil
}

// GetBookingsByStatus fetches bookings matching a status filter.
func (c *Client) GetBookingsByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, int, error) {
	query := url.Values{}
	query.Set("status", string(status))

	var payload bookingListResponse
	if err := c.do(ctx, http.MethodGet, "/bookings", query, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Items, payload.TotalCount, nil
}

// SearchBookings looks up bookings by booking ID or guest name. Single
// object, array, and 404 responses all normalize to a slice.
func (c *Client) SearchBookings(ctx context.Context, query string) ([]domain.Booking, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(query), nil, nil, &raw)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeBookings(raw)
}

func normalizeBookings(raw json.RawMessage) ([]domain.Booking, error) {
	var many []domain.Booking
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one domain.Booking
	if err := json.Unmarshal(raw, &one); err == nil && one.BookingID != "" {
		return []domain.Booking{one}, nil
	}
	return nil, fmt.Errorf("%w: booking search result", domain.ErrMalformedPayload)
}

// UpdateBookingStatus patches one booking's status field.
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	body := map[string]string{"status": string(status)}
	path := "/bookings/" + url.PathEscape(bookingID) + "/status"
	return c.do(ctx, http.MethodPatch, path, nil, body, nil)
}

// CancelBooking cancels a booking. The backend releases the room and emits a
// change notification.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	path := "/bookings/" + url.PathEscape(bookingID) + "/cancel"
	return c.do(ctx, http.MethodPut, path, nil, nil, nil)
}

// DeleteBooking removes a booking record entirely.
func (c *Client) DeleteBooking(ctx context.Context, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(bookingID), nil, nil, nil)
}

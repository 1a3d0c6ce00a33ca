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

// roomListResponse is the paginated rooms envelope.
type roomListResponse struct {
	Items      []domain.Room `json:"items"`
	TotalCount int           `json:"total_count"`
}

// GetRooms fetches one offset window of rooms.
func (c *Client) GetRooms(ctx context.Context, offset, limit int) ([]domain.Room, int, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var payload roomListResponse
	if err := c.do(ctx, http.MethodGet, "/rooms", query, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Items, payload.TotalCount, nil
}

// GetRoomsByStatus fetches rooms matching a status filter.
func (c *Client) GetRoomsByStatus(ctx context.Context, status domain.RoomStatus) ([]domain.Room, int, error) {
	query := url.Values{}
	query.Set("status", string(status))

	var payload roomListResponse
	if err := c.do(ctx, http.MethodGet, "/rooms", query, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Items, payload.TotalCount, nil
}

// SearchRooms looks up rooms by room number or free text. The backend may
// answer with a single object, an array, or 404; all three normalize to a
// slice.
func (c *Client) SearchRooms(ctx context.Context, query string) ([]domain.Room, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(query), nil, nil, &raw)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeRooms(raw)
}

func normalizeRooms(raw json.RawMessage) ([]domain.Room, error) {
	var many []domain.Room
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one domain.Room
	if err := json.Unmarshal(raw, &one); err == nil && one.RoomNumber != "" {
		return []domain.Room{one}, nil
	}
	return nil, fmt.Errorf("%w: room search result", domain.ErrMalformedPayload)
}

// CreateRoom registers a new room.
func (c *Client) CreateRoom(ctx context.Context, room domain.Room) error {
	return c.do(ctx, http.MethodPost, "/rooms", nil, room, nil)
}

// UpdateRoomStatus patches one room's status field.
func (c *Client) UpdateRoomStatus(ctx context.Context, roomNumber string, status domain.RoomStatus) error {
	body := map[string]string{"status": string(status)}
	path := "/rooms/" + url.PathEscape(roomNumber) + "/status"
	return c.do(ctx, http.MethodPatch, path, nil, body, nil)
}

// DeleteRoom removes a room.
func (c *Client) DeleteRoom(ctx context.Context, roomNumber string) error {
	return c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(roomNumber), nil, nil, nil)
}

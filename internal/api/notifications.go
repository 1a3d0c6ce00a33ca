package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pverberg/frontdesk/internal/domain"
)

type notificationListResponse struct {
	Items      []domain.Notification `json:"items"`
	TotalCount int                   `json:"total_count"`
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

// GetNotifications fetches one offset window of notifications, newest first.
func (c *Client) GetNotifications(ctx context.Context, offset, limit int) ([]domain.Notification, int, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var payload notificationListResponse
	if err := c.do(ctx, http.MethodGet, "/notifications/", query, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Items, payload.TotalCount, nil
}

// MarkRead marks a single notification as read.
func (c *Client) MarkRead(ctx context.Context, id int) error {
	body := map[string]bool{"is_read": true}
	return c.do(ctx, http.MethodPatch, "/notifications/"+strconv.Itoa(id), nil, body, nil)
}

// MarkAllRead marks every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/notifications/mark-all-read", nil, nil, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+strconv.Itoa(id), nil, nil, nil)
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var payload unreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

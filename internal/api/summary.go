package api

import (
	"context"
	"net/http"

	"github.com/pverberg/frontdesk/internal/domain"
)

// GetSummary fetches the dashboard summary. Allowed to lag the lists.
func (c *Client) GetSummary(ctx context.Context) (*domain.Summary, error) {
	var payload domain.Summary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

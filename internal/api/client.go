package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pverberg/frontdesk/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "frontdesk/1.0"
)

// Client talks to the reservation backend's REST API. It implements
// domain.RoomRepository, domain.BookingRepository,
// domain.NotificationRepository and domain.SummaryProvider.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ domain.RoomRepository         = (*Client)(nil)
	_ domain.BookingRepository      = (*Client)(nil)
	_ domain.NotificationRepository = (*Client)(nil)
	_ domain.SummaryProvider        = (*Client)(nil)
)

// NewClient creates an API client for the given backend URL.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs an authenticated request and decodes the JSON response into
// dest (which may be nil for write calls). Cancellation is reported as the
// context error so callers can discard it silently.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 400:
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err == nil && eb.Detail != "" {
			return &domain.APIError{StatusCode: resp.StatusCode, Detail: eb.Detail}
		}
		return &domain.APIError{StatusCode: resp.StatusCode}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("unexpected response shape", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return nil
}

// IsCancelled reports whether err is a discarded-request outcome rather than
// a real failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

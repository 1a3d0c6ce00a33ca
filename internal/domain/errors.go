package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrServerOffline indicates the reservation backend is unreachable
	ErrServerOffline = errors.New("reservation backend is unreachable")

	// ErrAuthFailed indicates the API token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrMalformedPayload indicates a response body that did not match the
	// expected shape. Treated as an empty/failed result, never propagated raw.
	ErrMalformedPayload = errors.New("malformed server payload")

	// ErrMutationPending indicates a write for the same key is already in
	// flight. The caller must wait for it to settle before retrying.
	ErrMutationPending = errors.New("mutation already pending for this key")
)

// APIError carries a server-provided detail string from a failed write or
// fetch. The detail is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// AsAPIError unwraps an APIError if err contains one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

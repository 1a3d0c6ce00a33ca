package tui

import (
	"github.com/pverberg/frontdesk/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error surfaced to the user.
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface.
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StoreChangedMsg signals that a list store's state changed and the view
// should re-render from fresh snapshots.
type StoreChangedMsg struct{}

// SummaryMsg carries a dashboard summary load result.
type SummaryMsg struct {
	Summary *domain.Summary
}

// PushNotificationMsg carries a server-pushed notification.
type PushNotificationMsg struct {
	Notification domain.Notification
}

// UnreadCountMsg carries the server-reported unread badge count.
type UnreadCountMsg struct {
	Count int
}

// AggregateRefreshMsg asks for a summary re-fetch after push activity.
type AggregateRefreshMsg struct{}

// RefreshTickMsg drives the periodic background refresh.
type RefreshTickMsg struct{}

// ToastClearMsg hides the transient status toast.
type ToastClearMsg struct{}

// OpDoneMsg signals a fire-and-forget store operation finished cleanly.
type OpDoneMsg struct{}

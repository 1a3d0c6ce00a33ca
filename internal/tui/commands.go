package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 4 * time.Second

// runOp wraps a blocking store operation in a command. Cancelled requests
// are inert; real failures surface as an ErrMsg toast.
func runOp(label string, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil && !errors.Is(err, context.Canceled) {
			return ErrMsg{Err: err, Context: label}
		}
		return OpDoneMsg{}
	}
}

// summaryCmd loads the dashboard summary, optionally bypassing the cache.
func (m *Model) summaryCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		get := m.stats.Get
		if force {
			get = m.stats.Refresh
		}
		summary, err := get(m.ctx)
		if err != nil {
			// The header tolerates a stale or missing summary.
			return SummaryMsg{Summary: nil}
		}
		return SummaryMsg{Summary: summary}
	}
}

func refreshTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

func toastClearCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastClearMsg{}
	})
}

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pverberg/frontdesk/internal/api"
	"github.com/pverberg/frontdesk/internal/billing"
	"github.com/pverberg/frontdesk/internal/domain"
	"github.com/pverberg/frontdesk/internal/liststore"
	"github.com/pverberg/frontdesk/internal/stats"
	"github.com/pverberg/frontdesk/internal/tui/styles"
)

// Tab identifies one resource view.
type Tab int

const (
	TabRooms Tab = iota
	TabBookings
	TabNotifications
	tabCount
)

func (t Tab) Title() string {
	switch t {
	case TabRooms:
		return "Rooms"
	case TabBookings:
		return "Bookings"
	default:
		return "Notifications"
	}
}

// roomStatusCycle is the set of statuses an admin may set directly.
// Occupied and Booked are managed by the booking lifecycle.
var roomStatusCycle = []domain.RoomStatus{
	domain.RoomAvailable,
	domain.RoomCleaning,
	domain.RoomMaintenance,
}

var roomFilterCycle = []string{
	"",
	string(domain.RoomAvailable),
	string(domain.RoomOccupied),
	string(domain.RoomMaintenance),
	string(domain.RoomCleaning),
	string(domain.RoomBooked),
}

var bookingFilterCycle = []string{
	"",
	string(domain.BookingPending),
	string(domain.BookingConfirmed),
	string(domain.BookingCheckedIn),
}

// Model is the main Bubble Tea model for the admin client.
type Model struct {
	ctx    context.Context
	logger *slog.Logger

	rooms         *liststore.Store[domain.Room]
	bookings      *liststore.Store[domain.Booking]
	notifications *liststore.Store[domain.Notification]
	client        *api.Client
	stats         *stats.Service

	keys        KeyMap
	help        help.Model
	searchInput textinput.Model
	spin        spinner.Model

	tab       Tab
	cursor    map[Tab]int
	searching bool
	showHelp  bool

	summary  *domain.Summary
	unread   int
	toast    string
	toastErr bool

	width, height int
	refreshEvery  time.Duration

	vatPct      float64
	discountPct float64
}

// NewModel wires the TUI to its stores and services.
func NewModel(
	ctx context.Context,
	rooms *liststore.Store[domain.Room],
	bookings *liststore.Store[domain.Booking],
	notifications *liststore.Store[domain.Notification],
	client *api.Client,
	statsSvc *stats.Service,
	refreshEvery time.Duration,
	vatPct, discountPct float64,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Placeholder = "search"
	input.CharLimit = 64
	input.Width = 32

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.AccentStyle

	return Model{
		ctx:           ctx,
		logger:        logger,
		rooms:         rooms,
		bookings:      bookings,
		notifications: notifications,
		client:        client,
		stats:         statsSvc,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		searchInput:   input,
		spin:          spin,
		cursor:        map[Tab]int{},
		refreshEvery:  refreshEvery,
		vatPct:        vatPct,
		discountPct:   discountPct,
	}
}

// Init starts the initial loads and the background refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		runOp("load rooms", func() error { return m.rooms.Refresh(m.ctx) }),
		runOp("load bookings", func() error { return m.bookings.Refresh(m.ctx) }),
		runOp("load notifications", func() error { return m.notifications.Refresh(m.ctx) }),
		m.summaryCmd(false),
		refreshTickCmd(m.refreshEvery),
	)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case StoreChangedMsg:
		m.clampCursor()
		return m, nil

	case SummaryMsg:
		if msg.Summary != nil {
			m.summary = msg.Summary
		}
		return m, nil

	case UnreadCountMsg:
		m.unread = msg.Count
		return m, nil

	case PushNotificationMsg:
		m.toast = msg.Notification.Title
		m.toastErr = false
		return m, tea.Batch(
			runOp("refresh notifications", func() error { return m.notifications.SilentRefresh(m.ctx) }),
			toastClearCmd(),
		)

	case AggregateRefreshMsg:
		m.stats.Invalidate()
		return m, m.summaryCmd(true)

	case RefreshTickMsg:
		return m, tea.Batch(
			runOp("background refresh", func() error { return m.rooms.SilentRefresh(m.ctx) }),
			runOp("background refresh", func() error { return m.bookings.SilentRefresh(m.ctx) }),
			m.summaryCmd(false),
			refreshTickCmd(m.refreshEvery),
		)

	case ToastClearMsg:
		m.toast = ""
		m.toastErr = false
		return m, nil

	case ErrMsg:
		m.toast = msg.Error()
		m.toastErr = true
		m.logger.Warn("operation failed", "context", msg.Context, "error", msg.Err)
		return m, toastClearCmd()

	case OpDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor[m.tab]++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.tab == TabNotifications {
			return m, nil
		}
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshActive()

	case key.Matches(msg, m.keys.LoadMore):
		return m, m.loadMoreActive()

	case key.Matches(msg, m.keys.Filter):
		return m, m.cycleFilter()

	case key.Matches(msg, m.keys.Escape):
		return m, m.clearSearchOrFilter()
	}

	switch m.tab {
	case TabRooms:
		return m.handleRoomKey(msg)
	case TabBookings:
		return m.handleBookingKey(msg)
	default:
		return m.handleNotificationKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.activeQueryChanged("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.activeQueryChanged(m.searchInput.Value())
	return m, cmd
}

// activeQueryChanged feeds a keystroke to the active tab's store. The store
// debounces and decides whether to search or fall back to Normal mode.
func (m Model) activeQueryChanged(raw string) {
	switch m.tab {
	case TabRooms:
		m.rooms.QueryChanged(m.ctx, raw)
	case TabBookings:
		m.bookings.QueryChanged(m.ctx, raw)
	}
}

func (m Model) refreshActive() tea.Cmd {
	switch m.tab {
	case TabRooms:
		return tea.Batch(
			runOp("refresh rooms", func() error { return m.rooms.Refresh(m.ctx) }),
			m.summaryCmd(true),
		)
	case TabBookings:
		return tea.Batch(
			runOp("refresh bookings", func() error { return m.bookings.Refresh(m.ctx) }),
			m.summaryCmd(true),
		)
	default:
		return runOp("refresh notifications", func() error { return m.notifications.Refresh(m.ctx) })
	}
}

func (m Model) loadMoreActive() tea.Cmd {
	switch m.tab {
	case TabRooms:
		return runOp("load more rooms", func() error { return m.rooms.LoadMore(m.ctx) })
	case TabBookings:
		return runOp("load more bookings", func() error { return m.bookings.LoadMore(m.ctx) })
	default:
		return runOp("load more notifications", func() error { return m.notifications.LoadMore(m.ctx) })
	}
}

func (m Model) cycleFilter() tea.Cmd {
	switch m.tab {
	case TabRooms:
		next := nextInCycle(roomFilterCycle, m.rooms.State().Filter)
		if next == "" {
			return runOp("clear filter", func() error { return m.rooms.Refresh(m.ctx) })
		}
		return runOp("filter rooms", func() error { return m.rooms.ApplyFilter(m.ctx, next) })
	case TabBookings:
		next := nextInCycle(bookingFilterCycle, m.bookings.State().Filter)
		if next == "" {
			return runOp("clear filter", func() error { return m.bookings.Refresh(m.ctx) })
		}
		return runOp("filter bookings", func() error { return m.bookings.ApplyFilter(m.ctx, next) })
	}
	return nil
}

func (m Model) clearSearchOrFilter() tea.Cmd {
	switch m.tab {
	case TabRooms:
		if m.rooms.State().Mode != liststore.ModeNormal {
			return runOp("reset rooms", func() error { return m.rooms.Refresh(m.ctx) })
		}
	case TabBookings:
		if m.bookings.State().Mode != liststore.ModeNormal {
			return runOp("reset bookings", func() error { return m.bookings.Refresh(m.ctx) })
		}
	}
	return nil
}

func (m Model) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	room, ok := m.selectedRoom()
	if !ok {
		return m, nil
	}
	num := room.RoomNumber

	switch {
	case key.Matches(msg, m.keys.Status):
		next, ok := nextRoomStatus(room.Status)
		if !ok {
			m.toast = "room status is managed by its booking"
			m.toastErr = true
			return m, toastClearCmd()
		}
		return m, runOp("update room "+num, func() error {
			return m.rooms.Mutate(m.ctx, num,
				func(r domain.Room) domain.Room { r.Status = next; return r },
				func(ctx context.Context) error { return m.client.UpdateRoomStatus(ctx, num, next) },
			)
		})

	case key.Matches(msg, m.keys.Delete):
		return m, runOp("delete room "+num, func() error {
			return m.rooms.Delete(m.ctx, num, func(ctx context.Context) error {
				return m.client.DeleteRoom(ctx, num)
			})
		})
	}
	return m, nil
}

func (m Model) handleBookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	booking, ok := m.selectedBooking()
	if !ok {
		return m, nil
	}
	id := booking.BookingID

	setStatus := func(status domain.BookingStatus) tea.Cmd {
		return runOp("update booking "+id, func() error {
			return m.bookings.Mutate(m.ctx, id,
				func(b domain.Booking) domain.Booking { b.Status = status; return b },
				func(ctx context.Context) error { return m.client.UpdateBookingStatus(ctx, id, status) },
			)
		})
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, setStatus(domain.BookingConfirmed)
	case key.Matches(msg, m.keys.CheckIn):
		return m, setStatus(domain.BookingCheckedIn)
	case key.Matches(msg, m.keys.CheckOut):
		return m, setStatus(domain.BookingCheckedOut)
	case key.Matches(msg, m.keys.Cancel):
		return m, runOp("cancel booking "+id, func() error {
			return m.bookings.Mutate(m.ctx, id,
				func(b domain.Booking) domain.Booking { b.Status = domain.BookingCancelled; return b },
				func(ctx context.Context) error { return m.client.CancelBooking(ctx, id) },
			)
		})
	case key.Matches(msg, m.keys.Delete):
		return m, runOp("delete booking "+id, func() error {
			return m.bookings.Delete(m.ctx, id, func(ctx context.Context) error {
				return m.client.DeleteBooking(ctx, id)
			})
		})
	case key.Matches(msg, m.keys.Quote):
		return m.showQuote(booking)
	}
	return m, nil
}

// showQuote prices the selected booking's stay against its room's nightly
// rate. Rooms not in the loaded list cannot be quoted locally.
func (m Model) showQuote(b domain.Booking) (tea.Model, tea.Cmd) {
	var rate float64
	found := false
	for _, r := range m.rooms.State().Items {
		if r.RoomNumber == b.RoomNumber {
			rate = float64(r.Price)
			found = true
			break
		}
	}
	if !found {
		m.toast = "room " + b.RoomNumber + " not loaded, refresh rooms to quote"
		m.toastErr = true
		return m, toastClearCmd()
	}

	q, err := billing.NewQuote(b.CheckIn, b.CheckOut, rate, m.discountPct, m.vatPct)
	if err != nil {
		m.toast = "cannot quote: " + err.Error()
		m.toastErr = true
		return m, toastClearCmd()
	}

	m.toast = fmt.Sprintf("%d nights × %.0f = %.2f · total %.2f (VAT %.0f%%)",
		q.Nights, q.NightlyRate, q.Subtotal, q.Total, q.VATPct)
	m.toastErr = false
	return m, toastClearCmd()
}

func (m Model) handleNotificationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.MarkAll):
		return m, runOp("mark all read", func() error {
			if err := m.client.MarkAllRead(m.ctx); err != nil {
				return err
			}
			return m.notifications.SilentRefresh(m.ctx)
		})
	}

	n, ok := m.selectedNotification()
	if !ok {
		return m, nil
	}
	itemKey := n.Key()
	id := n.ID

	switch {
	case key.Matches(msg, m.keys.MarkRead):
		return m, runOp("mark notification read", func() error {
			return m.notifications.Mutate(m.ctx, itemKey,
				func(n domain.Notification) domain.Notification { n.IsRead = true; return n },
				func(ctx context.Context) error { return m.client.MarkRead(ctx, id) },
			)
		})
	case key.Matches(msg, m.keys.Delete):
		return m, runOp("delete notification", func() error {
			return m.notifications.Delete(m.ctx, itemKey, func(ctx context.Context) error {
				return m.client.DeleteNotification(ctx, id)
			})
		})
	}
	return m, nil
}

func (m Model) selectedRoom() (domain.Room, bool) {
	visible := m.rooms.State().Visible()
	i := m.cursor[TabRooms]
	if i < 0 || i >= len(visible) {
		return domain.Room{}, false
	}
	return visible[i], true
}

func (m Model) selectedBooking() (domain.Booking, bool) {
	visible := m.bookings.State().Visible()
	i := m.cursor[TabBookings]
	if i < 0 || i >= len(visible) {
		return domain.Booking{}, false
	}
	return visible[i], true
}

func (m Model) selectedNotification() (domain.Notification, bool) {
	visible := m.notifications.State().Visible()
	i := m.cursor[TabNotifications]
	if i < 0 || i >= len(visible) {
		return domain.Notification{}, false
	}
	return visible[i], true
}

func (m *Model) clampCursor() {
	var count int
	switch m.tab {
	case TabRooms:
		count = len(m.rooms.State().Visible())
	case TabBookings:
		count = len(m.bookings.State().Visible())
	default:
		count = len(m.notifications.State().Visible())
	}
	if count == 0 {
		m.cursor[m.tab] = 0
		return
	}
	if m.cursor[m.tab] >= count {
		m.cursor[m.tab] = count - 1
	}
}

func nextRoomStatus(current domain.RoomStatus) (domain.RoomStatus, bool) {
	for i, s := range roomStatusCycle {
		if s == current {
			return roomStatusCycle[(i+1)%len(roomStatusCycle)], true
		}
	}
	return current, false
}

func nextInCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

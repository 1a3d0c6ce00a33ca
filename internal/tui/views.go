package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pverberg/frontdesk/internal/domain"
	"github.com/pverberg/frontdesk/internal/liststore"
	"github.com/pverberg/frontdesk/internal/search"
	"github.com/pverberg/frontdesk/internal/tui/styles"
)

// View renders the whole screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.viewList())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

func (m Model) viewHeader() string {
	title := styles.TitleStyle.Render("frontdesk")
	if m.summary == nil {
		return title
	}
	s := m.summary
	info := fmt.Sprintf(
		"rooms %d/%d free · bookings %d (%d pending) · in %d / out %d today · occupancy %.0f%%",
		s.AvailableRooms, s.TotalRooms,
		s.TotalBookings, s.PendingBookings,
		s.TodayCheckIns, s.TodayCheckOuts,
		s.OccupancyRate,
	)
	return title + "  " + styles.SubtitleStyle.Render(info)
}

func (m Model) viewTabs() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := t.Title()
		if t == TabNotifications && m.unread > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.unread)
		}
		if t == m.tab {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewList() string {
	switch m.tab {
	case TabRooms:
		return m.viewRooms()
	case TabBookings:
		return m.viewBookings()
	default:
		return m.viewNotifications()
	}
}

func (m Model) viewRooms() string {
	state := m.rooms.State()
	rooms := state.Visible()

	// Instant local narrowing while the debounced server search is pending.
	if q := pendingLocalQuery(m.searching, m.searchInput.Value(), state.Mode, state.Query); q != "" {
		rooms = filterRooms(rooms, q)
	}

	if len(rooms) == 0 {
		return m.viewEmpty(metaOf(state, 0))
	}

	var b strings.Builder
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%-8s %-12s %-12s %8s %4s %6s", "ROOM", "TYPE", "STATUS", "PRICE", "CAP", "FLOOR")))
	b.WriteString("\n")
	for i, r := range rooms {
		line := fmt.Sprintf("%-8s %-12s %-12s %8d %4d %6d",
			r.RoomNumber, r.RoomType, r.Status, r.Price, r.Capacity, r.Floor)
		b.WriteString(m.styleRow(line, i == m.cursor[TabRooms], m.rooms.Pending(r.RoomNumber), string(r.Status)))
		b.WriteString("\n")
	}
	b.WriteString(m.viewListStatus(metaOf(state, len(rooms))))
	return b.String()
}

func (m Model) viewBookings() string {
	state := m.bookings.State()
	bookings := state.Visible()

	if q := pendingLocalQuery(m.searching, m.searchInput.Value(), state.Mode, state.Query); q != "" {
		bookings = filterBookings(bookings, q)
	}

	if len(bookings) == 0 {
		return m.viewEmpty(metaOf(state, 0))
	}

	var b strings.Builder
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%-10s %-20s %-8s %-12s %-12s %-12s", "ID", "GUEST", "ROOM", "CHECK-IN", "CHECK-OUT", "STATUS")))
	b.WriteString("\n")
	for i, bk := range bookings {
		line := fmt.Sprintf("%-10s %-20s %-8s %-12s %-12s %-12s",
			bk.BookingID, truncate(bk.GuestName(), 20), bk.RoomNumber, bk.CheckIn, bk.CheckOut, bk.Status)
		b.WriteString(m.styleRow(line, i == m.cursor[TabBookings], m.bookings.Pending(bk.BookingID), string(bk.Status)))
		b.WriteString("\n")
	}
	b.WriteString(m.viewListStatus(metaOf(state, len(bookings))))
	return b.String()
}

func (m Model) viewNotifications() string {
	state := m.notifications.State()
	items := state.Visible()
	if len(items) == 0 {
		return m.viewEmpty(metaOf(state, 0))
	}

	var b strings.Builder
	for i, n := range items {
		marker := "●"
		if n.IsRead {
			marker = " "
		}
		line := fmt.Sprintf("%s %-24s %s", marker, truncate(n.Title, 24), truncate(n.Message, 60))
		b.WriteString(m.styleRow(line, i == m.cursor[TabNotifications], m.notifications.Pending(n.Key()), ""))
		b.WriteString("\n")
	}
	b.WriteString(m.viewListStatus(metaOf(state, len(items))))
	return b.String()
}

func (m Model) styleRow(line string, selected, pending bool, status string) string {
	switch {
	case pending:
		return styles.PendingStyle.Render(line)
	case selected:
		return styles.SelectedStyle.Render(line)
	case status != "":
		return lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render(line)
	default:
		return line
	}
}

// listMeta carries the scalar parts of a store state that the chrome needs,
// so view helpers stay free of the store's type parameter.
type listMeta struct {
	mode          liststore.Mode
	query, filter string
	loading       bool
	lastErr       error
	shown, total  int
	hasMore       bool
}

func metaOf[T liststore.Keyed](s liststore.State[T], shown int) listMeta {
	return listMeta{
		mode:    s.Mode,
		query:   s.Query,
		filter:  s.Filter,
		loading: s.Loading,
		lastErr: s.LastError,
		shown:   shown,
		total:   s.TotalCount,
		hasMore: s.HasMore,
	}
}

func (m Model) viewEmpty(meta listMeta) string {
	switch {
	case meta.loading:
		return m.spin.View() + styles.DimStyle.Render(" loading…")
	case meta.lastErr != nil:
		return styles.ErrorStyle.Render("  load failed, press r to retry")
	case meta.mode == liststore.ModeSearch:
		return styles.DimStyle.Render(fmt.Sprintf("  no matches for %q", meta.query))
	default:
		return styles.DimStyle.Render("  nothing here yet")
	}
}

func (m Model) viewListStatus(meta listMeta) string {
	var parts []string
	switch meta.mode {
	case liststore.ModeSearch:
		parts = append(parts, fmt.Sprintf("search %q · %d found", meta.query, meta.shown))
	case liststore.ModeFiltered:
		parts = append(parts, fmt.Sprintf("filter %s · %d shown", meta.filter, meta.shown))
	default:
		parts = append(parts, fmt.Sprintf("%d of %d", meta.shown, meta.total))
		if meta.hasMore {
			parts = append(parts, "m: load more")
		}
	}
	if meta.loading {
		parts = append(parts, m.spin.View())
	}
	return styles.DimStyle.Render(strings.Join(parts, " · "))
}

func (m Model) viewFooter() string {
	var parts []string
	if m.toast != "" {
		if m.toastErr {
			parts = append(parts, styles.ErrorStyle.Render(m.toast))
		} else {
			parts = append(parts, styles.SuccessStyle.Render(m.toast))
		}
	}
	if m.showHelp {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return strings.Join(parts, "\n")
}

// pendingLocalQuery returns the typed query while the debounced server
// search has not caught up, enabling instant local narrowing. Once the
// store displays results for the same query, the server view wins.
func pendingLocalQuery(searching bool, typed string, mode liststore.Mode, displayed string) string {
	if !searching {
		return ""
	}
	q := strings.TrimSpace(typed)
	if q == "" {
		return ""
	}
	if mode == liststore.ModeSearch && displayed == q {
		return ""
	}
	return q
}

func filterRooms(rooms []domain.Room, query string) []domain.Room {
	titles := make([]string, len(rooms))
	for i, r := range rooms {
		titles[i] = r.RoomNumber + " " + r.RoomType
	}
	matches := search.NewIndex(titles).Match(query)
	out := make([]domain.Room, 0, len(matches))
	for _, match := range matches {
		out = append(out, rooms[match.Index])
	}
	return out
}

func filterBookings(bookings []domain.Booking, query string) []domain.Booking {
	titles := make([]string, len(bookings))
	for i, b := range bookings {
		titles[i] = b.BookingID + " " + b.GuestName() + " " + b.RoomNumber
	}
	matches := search.NewIndex(titles).Match(query)
	out := make([]domain.Booking, 0, len(matches))
	for _, match := range matches {
		out = append(out, bookings[match.Index])
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Search   key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	LoadMore key.Binding
	Delete   key.Binding
	Status   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	CheckIn  key.Binding
	CheckOut key.Binding
	Quote    key.Binding
	MarkRead key.Binding
	MarkAll  key.Binding
	Escape   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		Confirm:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm booking")),
		Cancel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel booking")),
		CheckIn:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "check in")),
		CheckOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "check out")),
		Quote:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "price quote")),
		MarkRead: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark read")),
		MarkAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "mark all read")),
		Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Filter, k.Refresh, k.LoadMore, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.Escape},
		{k.Search, k.Filter, k.Refresh, k.LoadMore},
		{k.Status, k.Delete, k.Confirm, k.Cancel, k.CheckIn, k.CheckOut, k.Quote},
		{k.MarkRead, k.MarkAll, k.Help, k.Quit},
	}
}

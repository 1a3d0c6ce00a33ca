// Package liststore implements the synchronized list store that backs every
// resource view in the client: a paginated in-memory mirror of a server-side
// collection with debounced search, optimistic mutations, and external
// change application.
//
// Requests come in two classes, list-fetch and search-fetch. Starting a new
// request of a class cancels the previous one; a superseded response that
// arrives late is discarded. The last request started always wins.
package liststore

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pverberg/frontdesk/internal/domain"
)

// Keyed is a record with a stable natural key.
type Keyed interface {
	Key() string
}

// Mode is the store's display mode. Exactly one is active at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeFiltered
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeFiltered:
		return "filtered"
	default:
		return "normal"
	}
}

// PageFetcher returns one offset window of records plus the advisory total.
type PageFetcher[T Keyed] func(ctx context.Context, offset, limit int) ([]T, int, error)

// SearchFetcher resolves a query to records. A miss is an empty slice.
type SearchFetcher[T Keyed] func(ctx context.Context, query string) ([]T, error)

// FilterFetcher returns records matching a named filter.
type FilterFetcher[T Keyed] func(ctx context.Context, filter string) ([]T, int, error)

const (
	defaultPageSize    = 20
	defaultMinQueryLen = 2
	defaultQuietPeriod = 400 * time.Millisecond
)

// Config wires a Store to its backend collection.
type Config[T Keyed] struct {
	FetchPage   PageFetcher[T]
	Search      SearchFetcher[T]
	FetchFilter FilterFetcher[T] // optional; filter ops are no-ops without it

	PageSize    int
	MinQueryLen int
	QuietPeriod time.Duration

	Logger *slog.Logger
}

// State is a copy of the store's observable state, safe to render from.
type State[T Keyed] struct {
	Items         []T
	SearchResults []T
	Mode          Mode
	Query         string
	Filter        string
	Page          int
	HasMore       bool
	TotalCount    int
	Loading       bool
	Loaded        bool
	LastError     error
}

// Visible returns the list the current mode displays.
func (s State[T]) Visible() []T {
	if s.Mode == ModeSearch {
		return s.SearchResults
	}
	return s.Items
}

// Store owns the authoritative in-memory copy of one resource list. All
// access goes through its methods; UI code renders from State snapshots.
type Store[T Keyed] struct {
	cfg    Config[T]
	logger *slog.Logger

	mu            sync.Mutex
	items         []T
	searchResults []T
	mode          Mode
	query         string // query that produced searchResults
	filter        string
	page          int
	hasMore       bool
	totalCount    int
	loaded        bool // first successful fetch applied
	lastError     error

	pending map[string]bool

	// One in-flight request per class; bumping the generation makes any
	// prior response of that class inert.
	listGen      uint64
	searchGen    uint64
	listCancel   context.CancelFunc
	searchCancel context.CancelFunc
	listInFlight bool

	debounce *Debouncer
	onChange func()
	closed   bool
}

// New creates an empty store in Normal mode.
func New[T Keyed](cfg Config[T]) *Store[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MinQueryLen <= 0 {
		cfg.MinQueryLen = defaultMinQueryLen
	}
	if cfg.QuietPeriod <= 0 {
		cfg.QuietPeriod = defaultQuietPeriod
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		cfg:      cfg,
		logger:   logger,
		pending:  make(map[string]bool),
		debounce: NewDebouncer(cfg.QuietPeriod),
	}
}

// SetOnChange registers a callback invoked after every state change. The
// callback must not call back into the store synchronously.
func (s *Store[T]) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Close cancels all outstanding requests and pending debounce work. The
// store remains readable but issues no further fetches.
func (s *Store[T]) Close() {
	s.debounce.Cancel()
	s.mu.Lock()
	s.closed = true
	if s.listCancel != nil {
		s.listCancel()
	}
	if s.searchCancel != nil {
		s.searchCancel()
	}
	s.mu.Unlock()
}

// State returns a copy of the current observable state.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{
		Items:         cloneSlice(s.items),
		SearchResults: cloneSlice(s.searchResults),
		Mode:          s.mode,
		Query:         s.query,
		Filter:        s.filter,
		Page:          s.page,
		HasMore:       s.hasMore,
		TotalCount:    s.totalCount,
		Loading:       s.listInFlight,
		Loaded:        s.loaded,
		LastError:     s.lastError,
	}
}

// Pending reports whether a mutation for key is in flight.
func (s *Store[T]) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[key]
}

// Seed pre-populates the store from a session snapshot. It is ignored once
// any fetch has started or applied; the first real fetch always supersedes
// seeded data.
func (s *Store[T]) Seed(items []T, totalCount int) {
	s.mu.Lock()
	if s.loaded || s.listInFlight || len(s.items) > 0 {
		s.mu.Unlock()
		return
	}
	s.items = cloneSlice(items)
	s.totalCount = totalCount
	s.page = 1
	s.hasMore = len(items) < totalCount
	s.mu.Unlock()
	s.notify()
}

// Refresh reloads page 1, leaving Search and Filtered mode. On failure the
// list is cleared; this is the explicit-load policy. A newer refresh or
// load supersedes any outstanding list fetch.
func (s *Store[T]) Refresh(ctx context.Context) error {
	return s.reload(ctx, false)
}

// SilentRefresh is the background variant of Refresh: it runs only in
// Normal mode with no list fetch outstanding, and a failure leaves the
// current items untouched.
func (s *Store[T]) SilentRefresh(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != ModeNormal || s.listInFlight || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.reload(ctx, true)
}

func (s *Store[T]) reload(ctx context.Context, silent bool) error {
	fetchCtx, gen, ok := s.beginListFetch(ctx)
	if !ok {
		return nil
	}
	if !silent {
		s.notify()
	}

	items, total, err := s.cfg.FetchPage(fetchCtx, 0, s.cfg.PageSize)

	s.mu.Lock()
	if gen != s.listGen {
		// Superseded by a newer request; this result is inert.
		s.mu.Unlock()
		return nil
	}
	s.listInFlight = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return nil
		}
		if !silent {
			s.items = nil
			s.page = 0
			s.hasMore = false
			s.totalCount = 0
		}
		s.lastError = err
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("list refresh failed", "silent", silent, "error", err)
		return err
	}
	s.items = items
	s.mode = ModeNormal
	s.searchResults = nil
	s.query = ""
	s.filter = ""
	s.page = 1
	s.totalCount = total
	s.hasMore = len(s.items) < total
	s.loaded = true
	s.lastError = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// LoadMore appends the next page in Normal mode. It is a no-op unless
// hasMore is set and no list fetch is outstanding. A failure leaves the
// already-loaded items untouched.
func (s *Store[T]) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != ModeNormal || !s.hasMore || s.listInFlight || s.closed {
		s.mu.Unlock()
		return nil
	}
	offset := s.page * s.cfg.PageSize
	s.mu.Unlock()

	fetchCtx, gen, ok := s.beginListFetch(ctx)
	if !ok {
		return nil
	}
	s.notify()

	items, total, err := s.cfg.FetchPage(fetchCtx, offset, s.cfg.PageSize)

	s.mu.Lock()
	if gen != s.listGen {
		s.mu.Unlock()
		return nil
	}
	s.listInFlight = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return nil
		}
		s.lastError = err
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("load more failed", "offset", offset, "error", err)
		return err
	}
	seen := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		seen[it.Key()] = true
	}
	for _, it := range items {
		if !seen[it.Key()] {
			s.items = append(s.items, it)
		}
	}
	s.page++
	s.totalCount = total
	s.hasMore = len(s.items) < total
	s.lastError = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// QueryChanged feeds one keystroke of the search box into the store. Input
// below the minimum length cancels any pending search and, when in Search
// mode, falls back to a Normal reload. Longer input schedules a search
// after the quiet period; only the last keystroke of a burst fires.
func (s *Store[T]) QueryChanged(ctx context.Context, raw string) {
	if s.cfg.Search == nil {
		return
	}
	trimmed := strings.TrimSpace(raw)

	if len(trimmed) < s.cfg.MinQueryLen {
		s.debounce.Cancel()
		s.mu.Lock()
		if s.searchCancel != nil {
			s.searchCancel()
			s.searchCancel = nil
		}
		inSearch := s.mode == ModeSearch
		s.mu.Unlock()
		if inSearch {
			go func() { _ = s.Refresh(ctx) }()
		}
		return
	}

	s.mu.Lock()
	unchanged := s.mode == ModeSearch && trimmed == s.query
	s.mu.Unlock()
	if unchanged {
		// Typing and deleting back to the displayed query is a no-op.
		s.debounce.Cancel()
		return
	}

	s.debounce.Trigger(func() {
		s.runSearch(ctx, trimmed)
	})
}

func (s *Store[T]) runSearch(ctx context.Context, query string) {
	fetchCtx, gen, ok := s.beginSearchFetch(ctx)
	if !ok {
		return
	}

	results, err := s.cfg.Search(fetchCtx, query)

	s.mu.Lock()
	if gen != s.searchGen {
		s.mu.Unlock()
		return
	}
	s.searchCancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		s.mode = ModeSearch
		s.filter = ""
		s.searchResults = nil
		s.query = query
		s.lastError = err
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("search failed", "query", query, "error", err)
		return
	}
	s.mode = ModeSearch
	s.filter = ""
	s.searchResults = results
	s.query = query
	s.lastError = nil
	s.mu.Unlock()
	s.notify()
}

// ApplyFilter switches to a filtered view of the collection. Re-applying
// the active filter toggles back to Normal mode with a fresh reload.
// Entering a filter from Search mode drops the search state.
func (s *Store[T]) ApplyFilter(ctx context.Context, filter string) error {
	if s.cfg.FetchFilter == nil {
		return nil
	}

	s.mu.Lock()
	toggleOff := s.mode == ModeFiltered && s.filter == filter
	s.mu.Unlock()
	if toggleOff {
		return s.Refresh(ctx)
	}

	fetchCtx, gen, ok := s.beginListFetch(ctx)
	if !ok {
		return nil
	}
	s.notify()

	items, total, err := s.cfg.FetchFilter(fetchCtx, filter)

	s.mu.Lock()
	if gen != s.listGen {
		s.mu.Unlock()
		return nil
	}
	s.listInFlight = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return nil
		}
		s.lastError = err
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("filter fetch failed", "filter", filter, "error", err)
		return err
	}
	s.items = items
	s.mode = ModeFiltered
	s.filter = filter
	s.searchResults = nil
	s.query = ""
	s.page = 1
	s.totalCount = total
	s.hasMore = false // filtered views are not paginated
	s.loaded = true
	s.lastError = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// Mutate applies patch locally, runs write against the server, and rolls
// the patch back verbatim if the write fails. A second mutation for a key
// whose write is still in flight is rejected with ErrMutationPending.
func (s *Store[T]) Mutate(ctx context.Context, key string, patch func(T) T, write func(context.Context) error) error {
	s.mu.Lock()
	if s.pending[key] {
		s.mu.Unlock()
		return domain.ErrMutationPending
	}
	itemIdx := indexOf(s.items, key)
	searchIdx := indexOf(s.searchResults, key)
	if itemIdx < 0 && searchIdx < 0 {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	var origItem, origSearch T
	if itemIdx >= 0 {
		origItem = s.items[itemIdx]
		s.items[itemIdx] = patch(origItem)
	}
	if searchIdx >= 0 {
		origSearch = s.searchResults[searchIdx]
		s.searchResults[searchIdx] = patch(origSearch)
	}
	s.pending[key] = true
	s.mu.Unlock()
	s.notify()

	err := write(ctx)

	s.mu.Lock()
	delete(s.pending, key)
	if err != nil {
		// Full rollback to the captured pre-mutation records.
		if itemIdx >= 0 {
			if i := indexOf(s.items, key); i >= 0 {
				s.items[i] = origItem
			}
		}
		if searchIdx >= 0 {
			if i := indexOf(s.searchResults, key); i >= 0 {
				s.searchResults[i] = origSearch
			}
		}
		s.lastError = err
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// Delete optimistically removes the keyed record from both lists and runs
// remove against the server. On failure the record is re-inserted at its
// original index, or appended when the list has since shrunk past it.
func (s *Store[T]) Delete(ctx context.Context, key string, remove func(context.Context) error) error {
	s.mu.Lock()
	if s.pending[key] {
		s.mu.Unlock()
		return domain.ErrMutationPending
	}
	itemIdx := indexOf(s.items, key)
	searchIdx := indexOf(s.searchResults, key)
	if itemIdx < 0 && searchIdx < 0 {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	var origItem, origSearch T
	if itemIdx >= 0 {
		origItem = s.items[itemIdx]
		s.items = append(s.items[:itemIdx], s.items[itemIdx+1:]...)
	}
	if searchIdx >= 0 {
		origSearch = s.searchResults[searchIdx]
		s.searchResults = append(s.searchResults[:searchIdx], s.searchResults[searchIdx+1:]...)
	}
	s.pending[key] = true
	s.mu.Unlock()
	s.notify()

	err := remove(ctx)

	s.mu.Lock()
	delete(s.pending, key)
	if err != nil {
		if itemIdx >= 0 {
			s.items = insertAt(s.items, itemIdx, origItem)
		}
		if searchIdx >= 0 {
			s.searchResults = insertAt(s.searchResults, searchIdx, origSearch)
		}
		s.lastError = err
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// ApplyExternalChange patches the keyed record in whichever lists hold it.
// Used by the change listener; pagination state is untouched. Unknown keys
// are ignored.
func (s *Store[T]) ApplyExternalChange(key string, patch func(T) T) {
	s.mu.Lock()
	changed := false
	if i := indexOf(s.items, key); i >= 0 {
		s.items[i] = patch(s.items[i])
		changed = true
	}
	if i := indexOf(s.searchResults, key); i >= 0 {
		s.searchResults[i] = patch(s.searchResults[i])
		changed = true
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// beginListFetch supersedes any outstanding list-class request and returns
// the context and generation for a new one.
func (s *Store[T]) beginListFetch(ctx context.Context) (context.Context, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, false
	}
	if s.listCancel != nil {
		s.listCancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.listCancel = cancel
	s.listGen++
	s.listInFlight = true
	return fetchCtx, s.listGen, true
}

func (s *Store[T]) beginSearchFetch(ctx context.Context) (context.Context, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, false
	}
	if s.searchCancel != nil {
		s.searchCancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.searchCancel = cancel
	s.searchGen++
	return fetchCtx, s.searchGen, true
}

func (s *Store[T]) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func indexOf[T Keyed](items []T, key string) int {
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func insertAt[T Keyed](items []T, idx int, item T) []T {
	if idx >= len(items) {
		return append(items, item)
	}
	items = append(items, item) // grow by one
	copy(items[idx+1:], items[idx:])
	items[idx] = item
	return items
}

func cloneSlice[T Keyed](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

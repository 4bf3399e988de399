// Package pager loads lists incrementally: an initial page, more pages on
// demand, pull-to-refresh, and local single-item updates. The data source is
// a caller supplied FetchFunc, so the same controller backs the feed, the
// category explorer, profile tabs and comment threads.
//
// Each initial load and refresh bumps a generation counter. Results that
// come back under an older generation are dropped, which is how a page
// fetched for stale parameters (or overtaken by a refresh) is kept out of
// the list. Requests themselves are never aborted.
package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/glabrego/lumen-cli/internal/logging"
)

const DefaultPageSize = 20

// ErrFetchFailed wraps every error reported by a FetchFunc.
var ErrFetchFailed = errors.New("pager: fetch failed")

// Item is anything with a stable unique id.
type Item interface {
	ItemID() string
}

// Page is one result of a FetchFunc. Next is empty on the last page.
type Page[T any] struct {
	Items []T
	Next  Cursor
}

// FetchFunc returns the page after cursor for params. The empty cursor asks
// for the first page. Successive pages for the same params must not
// overlap; the controller does not deduplicate.
type FetchFunc[T any, P comparable] func(ctx context.Context, cursor Cursor, params P) (Page[T], error)

// State is a point-in-time copy of a controller. Items must be treated as
// read-only.
type State[T any, P comparable] struct {
	Items         []T
	Params        P
	IsLoading     bool
	IsLoadingMore bool
	IsRefreshing  bool
	HasMore       bool
	Err           error
}

type options struct {
	pageSize int
	enabled  bool
	logger   *log.Logger
}

type Option func(*options)

// WithPageSize sets the page size used to decide whether more pages exist.
// Non-positive values keep DefaultPageSize.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithEnabled controls automatic fetching. A disabled controller ignores
// Start, LoadMore and parameter changes until SetEnabled(ctx, true).
func WithEnabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Controller owns the list state for one screen. It is safe for concurrent
// use; blocking methods run the FetchFunc on the calling goroutine without
// holding the lock.
type Controller[T Item, P comparable] struct {
	fetch    FetchFunc[T, P]
	pageSize int
	logger   *log.Logger

	mu         sync.Mutex
	params     P
	enabled    bool
	items      []T
	cursor     Cursor
	hasMore    bool
	err        error
	generation uint64
	inflight   map[uint64]*inflight
}

// inflight counts the requests dispatched under one generation. Only the
// current generation's counts are visible through Snapshot and the LoadMore
// guard, so work left over from superseded params never blocks the new list.
type inflight struct {
	loading     int
	refreshing  int
	loadingMore bool
}

func (f inflight) idle() bool {
	return f.loading == 0 && f.refreshing == 0 && !f.loadingMore
}

// New builds a controller. It does not fetch; call Start when the consumer
// is ready to show the list.
func New[T Item, P comparable](fetch FetchFunc[T, P], params P, opts ...Option) *Controller[T, P] {
	o := options{
		pageSize: DefaultPageSize,
		enabled:  true,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T, P]{
		fetch:    fetch,
		pageSize: o.pageSize,
		logger:   o.logger.WithPrefix("pager"),
		params:   params,
		enabled:  o.enabled,
		inflight: make(map[uint64]*inflight),
	}
}

func (c *Controller[T, P]) trackLocked(gen uint64) *inflight {
	f := c.inflight[gen]
	if f == nil {
		f = &inflight{}
		c.inflight[gen] = f
	}
	return f
}

func (c *Controller[T, P]) releaseLocked(gen uint64, done func(*inflight)) {
	f := c.inflight[gen]
	if f == nil {
		return
	}
	done(f)
	if f.idle() {
		delete(c.inflight, gen)
	}
}

func (c *Controller[T, P]) currentLocked() inflight {
	if f := c.inflight[c.generation]; f != nil {
		return *f
	}
	return inflight{}
}

func (c *Controller[T, P]) PageSize() int { return c.pageSize }

func (c *Controller[T, P]) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Start runs the initial fetch with the current params. It is a no-op while
// the controller is disabled.
func (c *Controller[T, P]) Start(ctx context.Context) {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	gen, params := c.beginInitialLocked()
	c.mu.Unlock()

	c.finishInitial(ctx, gen, params)
}

// SetParams replaces the parameter value. An equal value changes nothing;
// a different one discards the cursor and items and reloads from the first
// page.
func (c *Controller[T, P]) SetParams(ctx context.Context, params P) {
	c.mu.Lock()
	if params == c.params {
		c.mu.Unlock()
		return
	}
	c.params = params
	if !c.enabled {
		c.generation++
		c.items = nil
		c.cursor = ""
		c.hasMore = false
		c.mu.Unlock()
		return
	}
	gen, p := c.beginInitialLocked()
	c.mu.Unlock()

	c.finishInitial(ctx, gen, p)
}

// SetEnabled toggles automatic fetching. Enabling a disabled controller
// runs exactly one initial fetch.
func (c *Controller[T, P]) SetEnabled(ctx context.Context, enabled bool) {
	c.mu.Lock()
	if c.enabled == enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = enabled
	if !enabled {
		c.mu.Unlock()
		return
	}
	gen, params := c.beginInitialLocked()
	c.mu.Unlock()

	c.finishInitial(ctx, gen, params)
}

// LoadMore appends the next page. It returns immediately when there is
// nothing more to load, the controller is disabled, or an initial load,
// refresh or another LoadMore is in flight.
func (c *Controller[T, P]) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if !c.enabled || !c.hasMore || !c.currentLocked().idle() {
		c.mu.Unlock()
		return
	}
	gen, cursor, params := c.generation, c.cursor, c.params
	c.trackLocked(gen).loadingMore = true
	c.err = nil
	c.mu.Unlock()

	page, err := c.call(ctx, cursor, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked(gen, func(f *inflight) { f.loadingMore = false })
	if gen != c.generation {
		c.logger.Debug("dropping stale page", "op", "load_more", "generation", gen, "current", c.generation)
		return
	}
	if err != nil {
		c.logger.Warn("load more failed", "err", err)
		c.err = err
		return
	}
	c.commitLocked(page, true)
}

// Refresh refetches the first page and replaces the list on success. On
// failure the current items and cursor are kept. Concurrent refreshes are
// not coalesced: the most recently started one wins.
func (c *Controller[T, P]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.trackLocked(gen).refreshing++
	c.err = nil
	params := c.params
	c.mu.Unlock()

	page, err := c.call(ctx, "", params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked(gen, func(f *inflight) { f.refreshing-- })
	if gen != c.generation {
		c.logger.Debug("dropping stale page", "op", "refresh", "generation", gen, "current", c.generation)
		return
	}
	if err != nil {
		c.logger.Warn("refresh failed", "err", err)
		c.err = err
		return
	}
	c.commitLocked(page, false)
}

// UpdateItem replaces every item whose id matches with fn(item). It reports
// whether anything matched; the list is untouched otherwise.
func (c *Controller[T, P]) UpdateItem(id string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next []T
	for i, item := range c.items {
		if item.ItemID() != id {
			continue
		}
		if next == nil {
			next = append([]T(nil), c.items...)
		}
		next[i] = fn(item)
	}
	if next == nil {
		return false
	}
	c.items = next
	return true
}

// SetItems replaces the list without fetching. Cursor and hasMore are kept.
func (c *Controller[T, P]) SetItems(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

func (c *Controller[T, P]) Snapshot() State[T, P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.currentLocked()
	return State[T, P]{
		Items:         c.items,
		Params:        c.params,
		IsLoading:     current.loading > 0,
		IsLoadingMore: current.loadingMore,
		IsRefreshing:  current.refreshing > 0,
		HasMore:       c.hasMore,
		Err:           c.err,
	}
}

func (c *Controller[T, P]) beginInitialLocked() (uint64, P) {
	c.generation++
	c.trackLocked(c.generation).loading++
	c.items = nil
	c.cursor = ""
	c.hasMore = false
	c.err = nil
	return c.generation, c.params
}

func (c *Controller[T, P]) finishInitial(ctx context.Context, gen uint64, params P) {
	page, err := c.call(ctx, "", params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked(gen, func(f *inflight) { f.loading-- })
	if gen != c.generation {
		c.logger.Debug("dropping stale page", "op", "initial", "generation", gen, "current", c.generation)
		return
	}
	if err != nil {
		c.logger.Warn("initial load failed", "err", err)
		c.err = err
		c.items = nil
		return
	}
	c.commitLocked(page, false)
}

// commitLocked stores a page. Items slices are never mutated in place so
// snapshots handed out earlier stay valid.
func (c *Controller[T, P]) commitLocked(page Page[T], appendItems bool) {
	if appendItems {
		next := make([]T, 0, len(c.items)+len(page.Items))
		next = append(next, c.items...)
		c.items = append(next, page.Items...)
	} else {
		c.items = append([]T(nil), page.Items...)
	}
	c.cursor = page.Next
	c.hasMore = len(page.Items) >= c.pageSize && !page.Next.IsZero()
}

func (c *Controller[T, P]) call(ctx context.Context, cursor Cursor, params P) (page Page[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = Page[T]{}, fmt.Errorf("%w: panic: %v", ErrFetchFailed, r)
		}
	}()
	page, err = c.fetch(ctx, cursor, params)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return page, nil
}

// Package browse implements the listing query controller behind the browse
// screen: category and search filters, a debounced search term, and
// last-request-wins application of fetch results.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/donaldgifford/clicklar/internal/api/client"
	"github.com/donaldgifford/clicklar/internal/metrics"
	"github.com/donaldgifford/clicklar/internal/notify"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// search term is resolved.
const DefaultDebounce = 500 * time.Millisecond

// FallbackMessage is shown when a failed fetch carries no server message.
const FallbackMessage = "Could not load services."

// Fetcher is the listings collaborator. *client.Client satisfies it.
type Fetcher interface {
	ListPublicServices(ctx context.Context, params *client.ListServicesParams) ([]domain.Listing, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// AuthState reports whether a user is signed in.
type AuthState interface {
	IsAuthenticated(ctx context.Context) bool
}

// Controller owns the filter state of one browse screen and the result of
// its most recent fetch. It is safe for concurrent use.
type Controller struct {
	fetcher  Fetcher
	notifier notify.Notifier
	auth     AuthState
	clock    Clock
	debounce time.Duration
	log      *slog.Logger
	onChange func(State)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// emitMu orders onChange calls so observers never see an older
	// snapshot after a newer one.
	emitMu sync.Mutex

	mu       sync.Mutex
	state    State
	timer    Timer
	timerGen uint64
	seq      uint64
	catSeq   uint64
	issued   *Filters
	closed   bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithDebounce sets the search debounce window. A non-positive window
// resolves every keystroke immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithClock sets the clock used for debounce timers.
func WithClock(clk Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithNotifier sets where fetch failures are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithAuth sets the session consulted by OnScreenActivated.
func WithAuth(a AuthState) Option {
	return func(c *Controller) {
		c.auth = a
	}
}

// WithOnChange registers a callback invoked with a fresh snapshot after
// every state change. Calls are serialized. The callback may call State but
// must not call any other Controller method.
func WithOnChange(f func(State)) Option {
	return func(c *Controller) {
		c.onChange = f
	}
}

// New creates a Controller. No fetch is issued until a filter changes or
// Refresh or OnScreenActivated is called.
func New(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  f,
		clock:    realClock{},
		debounce: DefaultDebounce,
		log:      slog.Default(),
		state:    State{Category: domain.AllCategories},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = notify.NewLogNotifier(c.log)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetCategory selects a category. The search input and debounced term are
// cleared, any pending debounce is dropped and the new filters are fetched
// immediately.
func (c *Controller) SetCategory(category string) {
	if category == "" {
		category = domain.AllCategories
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.state.Category = category
	c.state.SearchText = ""
	c.state.Search = ""
	c.fetchLocked(false)
	c.mu.Unlock()

	c.emit()
}

// SetFilters selects a category and search term together, resolving the
// term at once and issuing at most one fetch. Any pending debounce is
// dropped.
func (c *Controller) SetFilters(category, search string) {
	if category == "" {
		category = domain.AllCategories
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.state.Category = category
	c.state.SearchText = search
	c.state.Search = search
	c.fetchLocked(false)
	c.mu.Unlock()

	c.emit()
}

// SetSearchText records the raw search input and restarts the debounce
// timer. The debounced term, and any fetch it causes, follows once no
// further input arrives within the debounce window.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.SearchText = text
	c.stopTimerLocked()
	if c.debounce <= 0 {
		c.state.Search = text
		c.fetchLocked(false)
	} else {
		gen := c.timerGen
		c.timer = c.clock.AfterFunc(c.debounce, func() { c.resolveSearch(gen) })
	}
	c.mu.Unlock()

	c.emit()
}

// SubmitSearch resolves the search input immediately, as a keyboard search
// key would, dropping any pending debounce.
func (c *Controller) SubmitSearch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.state.Search = c.state.SearchText
	c.fetchLocked(false)
	c.mu.Unlock()

	c.emit()
}

// Refresh re-fetches the current resolved filters, bypassing the debounce.
// A pending debounce timer is left running.
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchLocked(true)
	c.mu.Unlock()

	c.emit()
}

// OnScreenActivated is called by the host whenever the browse screen gains
// focus. It reloads the category list and refreshes the listings.
func (c *Controller) OnScreenActivated() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.catSeq++
	catSeq := c.catSeq
	c.wg.Add(1)
	go c.loadCategories(catSeq)
	c.fetchLocked(true)
	c.mu.Unlock()

	c.emit()
}

// Wait blocks until every fetch issued so far has resolved. Pending
// debounce timers are not waited for.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops the debounce timer, abandons in-flight fetches and waits for
// their goroutines to exit. Results arriving after Close are discarded.
// Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// resolveSearch runs when a debounce timer fires. Timers that were replaced
// or stopped after firing began are ignored via gen.
func (c *Controller) resolveSearch(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state.Search = c.state.SearchText
	c.fetchLocked(false)
	c.mu.Unlock()

	c.emit()
}

// fetchLocked issues a fetch for the resolved filters unless they equal the
// last issued filters and force is false.
func (c *Controller) fetchLocked(force bool) {
	f := c.state.resolved()
	if !force && c.issued != nil && *c.issued == f {
		return
	}
	c.issued = &f
	c.seq++
	seq := c.seq

	if len(c.state.Listings) == 0 || c.state.Shown != f {
		c.state.Loading = true
		c.state.Refreshing = false
	} else {
		c.state.Loading = false
		c.state.Refreshing = true
	}

	metrics.BrowseFetchesTotal.Inc()
	c.log.Debug("fetching listings",
		"seq", seq,
		"category", f.Category,
		"search", f.Search,
	)

	c.wg.Add(1)
	go c.fetch(seq, f)
}

func (c *Controller) fetch(seq uint64, f Filters) {
	defer c.wg.Done()

	listings, err := c.fetcher.ListPublicServices(c.ctx, &client.ListServicesParams{
		Category: f.Category,
		Search:   f.Search,
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		metrics.BrowseStaleResponsesTotal.Inc()
		c.log.Debug("discarding stale listings response",
			"seq", seq,
			"latest", latest,
			"category", f.Category,
			"search", f.Search,
		)
		return
	}

	c.state.Loading = false
	c.state.Refreshing = false

	if err != nil {
		c.state.Err = err
		c.mu.Unlock()
		c.reportFailure(f, err)
		c.emit()
		return
	}

	if listings == nil {
		listings = []domain.Listing{}
	}
	c.state.Listings = listings
	c.state.Shown = f
	c.state.Err = nil
	c.state.Loaded = true
	c.mu.Unlock()

	c.log.Debug("listings loaded",
		"seq", seq,
		"count", len(listings),
	)
	c.emit()
}

func (c *Controller) reportFailure(f Filters, err error) {
	metrics.BrowseFetchErrorsTotal.Inc()
	c.log.Warn("listing fetch failed",
		"category", f.Category,
		"search", f.Search,
		"error", err,
	)

	notice := notify.ErrorNotice("Error", client.UserMessage(err, FallbackMessage))
	if nerr := c.notifier.Notify(context.WithoutCancel(c.ctx), notice); nerr != nil {
		c.log.Error("delivering notification", "error", nerr)
	}
}

func (c *Controller) loadCategories(seq uint64) {
	defer c.wg.Done()

	authenticated := false
	if c.auth != nil {
		authenticated = c.auth.IsAuthenticated(c.ctx)
	}

	categories, err := c.fetcher.ListCategories(c.ctx)

	c.mu.Lock()
	if c.closed || seq != c.catSeq {
		c.mu.Unlock()
		return
	}
	c.state.Authenticated = authenticated
	if err == nil {
		c.state.Categories = append([]string{domain.AllCategories}, categories...)
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.Warn("loading categories", "error", err)
	}
	c.emit()
}

func (c *Controller) emit() {
	if c.onChange == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.onChange(c.State())
}

package browse

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/clicklar/internal/api/client"
	"github.com/donaldgifford/clicklar/internal/notify"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// fakeClock fires timers only when Advance moves past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clk     *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clk: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs due timers in deadline order,
// outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Pending counts timers that are neither stopped nor fired.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fetchResult struct {
	listings []domain.Listing
	err      error
}

// fetchCall is one blocked ListPublicServices call. The test resolves it
// by sending on reply.
type fetchCall struct {
	params client.ListServicesParams
	reply  chan fetchResult
}

func (c *fetchCall) respond(listings ...domain.Listing) {
	if listings == nil {
		listings = []domain.Listing{}
	}
	c.reply <- fetchResult{listings: listings}
}

func (c *fetchCall) fail(err error) {
	c.reply <- fetchResult{err: err}
}

type fakeFetcher struct {
	calls chan *fetchCall

	mu         sync.Mutex
	categories []string
	catErr     error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *fetchCall, 32)}
}

func (f *fakeFetcher) ListPublicServices(
	ctx context.Context,
	params *client.ListServicesParams,
) ([]domain.Listing, error) {
	call := &fetchCall{params: *params, reply: make(chan fetchResult, 1)}
	f.calls <- call
	select {
	case r := <-call.reply:
		return r.listings, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeFetcher) ListCategories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, f.catErr
}

// next returns the next issued fetch, failing the test if none arrives.
func (f *fakeFetcher) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a listings fetch")
		return nil
	}
}

// requireNoFetch fails if a fetch is issued within a short grace period.
func (f *fakeFetcher) requireNoFetch(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		require.FailNow(t, "unexpected listings fetch", "params: %+v", c.params)
	case <-time.After(50 * time.Millisecond):
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

func (r *recordingNotifier) all() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.notices...)
}

type staticAuth bool

func (a staticAuth) IsAuthenticated(context.Context) bool { return bool(a) }

func listing(id, title string) domain.Listing {
	return domain.Listing{ID: id, Title: title, Category: "Pintura", Price: 100}
}

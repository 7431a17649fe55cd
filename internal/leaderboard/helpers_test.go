package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock only moves when Advance is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTimer(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{c: make(chan time.Time, 1), at: f.now.Add(d)}
	if d <= 0 {
		t.fired = true
		t.c <- f.now
	}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time, 1), every: d, next: f.now.Add(d)}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves time forward and fires every timer and ticker that is due.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.now.Add(d)
	for _, t := range f.timers {
		t.mu.Lock()
		if !t.fired && !t.stopped && !t.at.After(target) {
			t.fired = true
			t.c <- t.at
		}
		t.mu.Unlock()
	}
	for _, t := range f.tickers {
		t.mu.Lock()
		for !t.stopped && !t.next.After(target) {
			select {
			case t.c <- t.next:
			default:
			}
			t.next = t.next.Add(t.every)
		}
		t.mu.Unlock()
	}
	f.now = target
}

func (f *fakeClock) timerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *fakeClock) activeTickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		t.mu.Lock()
		if !t.stopped {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

type fakeTimer struct {
	mu      sync.Mutex
	c       chan time.Time
	at      time.Time
	fired   bool
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.fired && !t.stopped
	t.stopped = true
	return active
}

type fakeTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	every   time.Duration
	next    time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// recordingDisplay keeps every call in order.
type recordingDisplay struct {
	mu      sync.Mutex
	events  []string
	loading []string
	views   []View
	errs    []error
}

func (d *recordingDisplay) ShowLoading(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "loading")
	d.loading = append(d.loading, message)
}

func (d *recordingDisplay) ShowTable(v View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "table")
	d.views = append(d.views, v)
}

func (d *recordingDisplay) ShowError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "error")
	d.errs = append(d.errs, err)
}

func (d *recordingDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "clear")
}

func (d *recordingDisplay) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func (d *recordingDisplay) Views() []View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]View(nil), d.views...)
}

func (d *recordingDisplay) Errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errs...)
}

// recordingHost collects reported outputs.
type recordingHost struct {
	outputs chan Output
}

func newRecordingHost() *recordingHost {
	return &recordingHost{outputs: make(chan Output, 4)}
}

func (h *recordingHost) ReportCompletion(out Output) {
	h.outputs <- out
}

func (h *recordingHost) wait(t *testing.T) Output {
	t.Helper()
	select {
	case out := <-h.outputs:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("trial did not report completion")
		return Output{}
	}
}

// scriptedFetcher returns responses in order and repeats the last one.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []fetchResponse
	calls     []fetchCall
	gate      chan struct{} // when set, fetches after the first wait on it
	started   chan struct{}
	ready     *bool
}

type fetchResponse struct {
	rows []Row
	err  error
}

type fetchCall struct {
	id      string
	level   ScoreLevel
	options map[string]any
}

func (f *scriptedFetcher) FetchScores(_ context.Context, id string, level ScoreLevel, options map[string]any) ([]Row, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{id: id, level: level, options: options})
	n := len(f.calls)
	resp := fetchResponse{err: errors.New("no scripted response")}
	if len(f.responses) > 0 {
		resp = f.responses[min(n, len(f.responses))-1]
	}
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if n > 1 && gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		<-gate
	}
	return resp.rows, resp.err
}

func (f *scriptedFetcher) Initialized() bool {
	if f.ready == nil {
		return true
	}
	return *f.ready
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func sampleRows() []Row {
	return []Row{
		NewRow(Field{"rank", 1}, Field{"name", "John"}, Field{"score", 1000}),
		NewRow(Field{"rank", 2}, Field{"name", "Alice"}, Field{"score", 950}),
		NewRow(Field{"rank", 3}, Field{"name", "Bob"}, Field{"score", 900}),
	}
}

func scoreRows(names ...string) []Row {
	rows := make([]Row, len(names))
	for i, n := range names {
		rows[i] = NewRow(Field{"publicIndividualName", n}, Field{"score", 100 - i})
	}
	return rows
}

func ptr[T any](v T) *T { return &v }

// startTrial runs the controller in the background and returns its result
// channel.
func startTrial(t *testing.T, ctx context.Context, c *Controller) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return done
}

func waitState(t *testing.T, c *Controller, want TrialState) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State() == want }, 2*time.Second, 5*time.Millisecond,
		"controller never reached %s (now %s)", want, c.State())
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

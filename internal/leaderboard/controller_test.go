package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/leaderboard/internal/testutil"
)

func newTestController(t *testing.T, p Params, clock *fakeClock) (*Controller, *recordingDisplay, *recordingHost) {
	t.Helper()
	display := &recordingDisplay{}
	host := newRecordingHost()
	c := NewController(Options{
		Params:  p,
		Display: display,
		Host:    host,
		Clock:   clock,
		Logger:  testutil.NewTestLogger(t),
		TrialID: "trial-1",
	})
	return c, display, host
}

func TestController_StaticTableEndsOnContinue(t *testing.T) {
	clock := newFakeClock()
	c, display, host := newTestController(t, Params{Data: sampleRows()}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)

	views := display.Views()
	require.Len(t, views, 1)
	assert.True(t, views[0].ShowContinue)
	assert.Equal(t, []string{"rank", "name", "score"}, views[0].Table.Header)
	assert.Equal(t, []string{"1", "John", "1000"}, views[0].Table.Body[0])
	assert.Equal(t, DefaultTableStyles, views[0].Styles)
	assert.Equal(t, "trial-1", views[0].TrialID)

	c.Continue()
	require.NoError(t, waitRun(t, done))

	out := host.wait(t)
	assert.Equal(t, TriggerContinue, out.Trigger)
	assert.Equal(t, sampleRows(), out.Rows)
	assert.Equal(t, "trial-1", out.TrialID)
	assert.NoError(t, out.Err)
	assert.Equal(t, []string{"table", "clear"}, display.Events())
	assert.Equal(t, StateTerminated, c.State())
}

func TestController_DurationEndsWithoutContinueControl(t *testing.T) {
	clock := newFakeClock()
	c, display, host := newTestController(t, Params{Data: sampleRows(), Duration: ptr(time.Second)}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)
	require.Eventually(t, func() bool { return clock.timerCount() == 1 }, time.Second, 5*time.Millisecond)

	views := display.Views()
	require.Len(t, views, 1)
	assert.False(t, views[0].ShowContinue)

	// The continue control is not armed, so activating it does nothing.
	c.Continue()
	clock.Advance(999 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("trial ended before its duration")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Millisecond)
	require.NoError(t, waitRun(t, done))

	out := host.wait(t)
	assert.Equal(t, TriggerDuration, out.Trigger)
	assert.Equal(t, sampleRows(), out.Rows)
	assert.Equal(t, time.Second, out.Elapsed())
}

func TestController_ZeroDurationEndsAfterFirstRender(t *testing.T) {
	clock := newFakeClock()
	c, display, host := newTestController(t, Params{Data: sampleRows(), Duration: ptr(time.Duration(0))}, clock)

	done := startTrial(t, context.Background(), c)
	require.NoError(t, waitRun(t, done))

	out := host.wait(t)
	assert.Equal(t, TriggerDuration, out.Trigger)
	assert.Equal(t, []string{"table", "clear"}, display.Events())
}

func TestController_EmptyDataWithColumnsRendersHeaderOnly(t *testing.T) {
	clock := newFakeClock()
	cols := []ColumnSpec{Column("rank"), LabeledColumn("name", "Player"), Column("score")}
	c, display, host := newTestController(t, Params{Data: []Row{}, Columns: cols}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)

	views := display.Views()
	require.Len(t, views, 1)
	assert.Equal(t, []string{"rank", "Player", "score"}, views[0].Table.Header)
	assert.Empty(t, views[0].Table.Body)

	c.Continue()
	require.NoError(t, waitRun(t, done))
	out := host.wait(t)
	assert.Equal(t, TriggerContinue, out.Trigger)
	assert.Empty(t, out.Rows)
}

func TestController_ConfigurationErrorsTerminateWithoutTable(t *testing.T) {
	fetcher := &scriptedFetcher{}
	tests := []struct {
		name   string
		params Params
	}{
		{"neither data nor id", Params{}},
		{"both data and id", Params{Data: sampleRows(), LeaderboardID: "lb", Remote: fetcher}},
		{"id without client", Params{LeaderboardID: "lb"}},
		{"bad score level", Params{LeaderboardID: "lb", Remote: fetcher, ScoreLevel: "teams"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, display, host := newTestController(t, tt.params, newFakeClock())

			err := c.Run(context.Background())
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)

			out := host.wait(t)
			assert.Equal(t, TriggerError, out.Trigger)
			assert.Nil(t, out.Rows)
			assert.ErrorAs(t, out.Err, &cfgErr)
			assert.Empty(t, display.Views(), "no table may be rendered")
			assert.Equal(t, []string{"clear", "error"}, display.Events())
			assert.Equal(t, StateTerminated, c.State())
		})
	}
	assert.Zero(t, fetcher.callCount(), "validation must happen before any fetch")
}

func TestController_RemoteShowsLoadingThenTable(t *testing.T) {
	clock := newFakeClock()
	fetcher := &scriptedFetcher{responses: []fetchResponse{{rows: scoreRows("ann", "ben")}}}
	c, display, host := newTestController(t, Params{
		LeaderboardID:  "lb-1",
		Remote:         fetcher,
		ScoreLevel:     LevelIndividual,
		FetchOptions:   map[string]any{"limit": 10},
		LoadingMessage: "Fetching...",
	}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)

	views := display.Views()
	require.Len(t, views, 1)
	assert.Equal(t, []string{"Name", "Score"}, views[0].Table.Header)
	assert.Equal(t, [][]string{{"ann", "100"}, {"ben", "99"}}, views[0].Table.Body)

	fetcher.mu.Lock()
	call := fetcher.calls[0]
	fetcher.mu.Unlock()
	assert.Equal(t, "lb-1", call.id)
	assert.Equal(t, LevelIndividual, call.level)
	assert.Equal(t, map[string]any{"limit": 10}, call.options)

	c.Continue()
	require.NoError(t, waitRun(t, done))
	host.wait(t)

	d := display
	d.mu.Lock()
	assert.Equal(t, []string{"Fetching..."}, d.loading)
	d.mu.Unlock()
	assert.Equal(t, []string{"loading", "table", "clear"}, display.Events())
}

func TestController_InitialFetchFailureTerminates(t *testing.T) {
	clock := newFakeClock()
	boom := errors.New("connection refused")
	fetcher := &scriptedFetcher{responses: []fetchResponse{{err: boom}}}
	c, display, host := newTestController(t, Params{LeaderboardID: "lb", Remote: fetcher}, clock)

	err := c.Run(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, boom)

	out := host.wait(t)
	assert.Equal(t, TriggerError, out.Trigger)
	assert.Nil(t, out.Rows)
	assert.Equal(t, []string{"loading", "clear", "error"}, display.Events())
}

func TestController_RefreshReportsLatestRows(t *testing.T) {
	clock := newFakeClock()
	fetcher := &scriptedFetcher{responses: []fetchResponse{
		{rows: scoreRows("ann")},
		{rows: scoreRows("ben", "cat")},
	}}
	c, display, host := newTestController(t, Params{
		LeaderboardID:   "lb",
		Remote:          fetcher,
		RefreshInterval: 5 * time.Second,
	}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)
	require.Eventually(t, func() bool { return clock.activeTickers() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return len(display.Views()) == 2 }, time.Second, 5*time.Millisecond)

	views := display.Views()
	assert.Equal(t, [][]string{{"ben", "100"}, {"cat", "99"}}, views[1].Table.Body)
	// The table is shown before the rows are committed.
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(scoreRows("ben", "cat"), c.Snapshot().Items)
	}, time.Second, 5*time.Millisecond)

	c.Continue()
	require.NoError(t, waitRun(t, done))

	out := host.wait(t)
	assert.Equal(t, scoreRows("ben", "cat"), out.Rows)
	assert.Equal(t, 1, out.Refreshes)
	assert.Zero(t, clock.activeTickers(), "termination must stop the refresh ticker")
}

func TestController_RefreshFailureKeepsTable(t *testing.T) {
	clock := newFakeClock()
	fetcher := &scriptedFetcher{responses: []fetchResponse{
		{rows: scoreRows("ann")},
		{err: errors.New("503")},
		{err: errors.New("503")},
		{rows: scoreRows("dan")},
	}}
	c, display, host := newTestController(t, Params{
		LeaderboardID:   "lb",
		Remote:          fetcher,
		RefreshInterval: time.Second,
	}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)
	require.Eventually(t, func() bool { return clock.activeTickers() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return c.Snapshot().ConsecutiveFailures == 1 }, time.Second, 5*time.Millisecond)
	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return c.Snapshot().IsStale() }, time.Second, 5*time.Millisecond)

	assert.Len(t, display.Views(), 1, "failed refreshes must not touch the display")
	assert.Equal(t, scoreRows("ann"), c.Snapshot().Items)

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return len(display.Views()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, c.Snapshot().ConsecutiveFailures)

	c.Continue()
	require.NoError(t, waitRun(t, done))
	assert.Equal(t, scoreRows("dan"), host.wait(t).Rows)
}

func TestController_InFlightRefreshIsDiscardedAfterTermination(t *testing.T) {
	clock := newFakeClock()
	fetcher := &scriptedFetcher{
		responses: []fetchResponse{{rows: scoreRows("ann")}, {rows: scoreRows("late")}},
		gate:      make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	c, display, host := newTestController(t, Params{
		LeaderboardID:   "lb",
		Remote:          fetcher,
		RefreshInterval: time.Second,
	}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)
	require.Eventually(t, func() bool { return clock.activeTickers() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(time.Second)
	select {
	case <-fetcher.started:
	case <-time.After(time.Second):
		t.Fatal("refresh fetch never started")
	}

	c.Continue()
	require.NoError(t, waitRun(t, done))
	close(fetcher.gate)

	out := host.wait(t)
	assert.Equal(t, scoreRows("ann"), out.Rows)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"loading", "table", "clear"}, display.Events())
}

func TestController_StaticSourceNeverRefreshes(t *testing.T) {
	clock := newFakeClock()
	c, _, host := newTestController(t, Params{Data: sampleRows(), RefreshInterval: time.Second}, clock)

	done := startTrial(t, context.Background(), c)
	waitState(t, c, StateDisplaying)
	assert.Zero(t, clock.activeTickers())

	c.Continue()
	require.NoError(t, waitRun(t, done))
	assert.Zero(t, host.wait(t).Refreshes)
}

func TestController_CancelReportsDisplayedRows(t *testing.T) {
	clock := newFakeClock()
	c, display, host := newTestController(t, Params{Data: sampleRows()}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := startTrial(t, ctx, c)
	waitState(t, c, StateDisplaying)

	cancel()
	require.ErrorIs(t, waitRun(t, done), context.Canceled)

	out := host.wait(t)
	assert.Equal(t, TriggerCancelled, out.Trigger)
	assert.Equal(t, sampleRows(), out.Rows)
	assert.Equal(t, []string{"table", "clear"}, display.Events())
}

func TestController_RunOnlyOnce(t *testing.T) {
	c, _, host := newTestController(t, Params{Data: sampleRows(), Duration: ptr(time.Duration(0))}, newFakeClock())

	require.NoError(t, c.Run(context.Background()))
	host.wait(t)
	assert.ErrorIs(t, c.Run(context.Background()), ErrAlreadyRun)
}

func TestController_ContinueIgnoredBeforeDisplay(t *testing.T) {
	c, _, _ := newTestController(t, Params{Data: sampleRows()}, newFakeClock())
	c.Continue()
	assert.Empty(t, c.continueCh, "continue before display must not be queued")
}

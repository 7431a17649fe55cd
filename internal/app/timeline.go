package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/five82/leaderboard/internal/leaderboard"
	"github.com/five82/leaderboard/internal/results"
	"github.com/five82/leaderboard/internal/state"
	"github.com/five82/leaderboard/internal/trialfile"
)

// ResultSaver persists finished trials.
type ResultSaver interface {
	Save(ctx context.Context, rec results.Record) error
}

// TrialStart describes the trial a timeline is about to run.
type TrialStart struct {
	Index   int // zero based
	Total   int
	Name    string
	TrialID string
}

// TimelineOptions configure a Timeline.
type TimelineOptions struct {
	Trials  []trialfile.Trial
	Remote  leaderboard.ScoreFetcher // used by trials with a leaderboard_id
	Results ResultSaver              // nil skips persistence
	Clock   leaderboard.Clock        // nil uses the wall clock
	Logger  *slog.Logger
}

// Timeline runs trials one after another. Continue and Snapshot may be called
// from any goroutine and act on whichever trial is running.
type Timeline struct {
	trials  []trialfile.Trial
	remote  leaderboard.ScoreFetcher
	results ResultSaver
	clock   leaderboard.Clock
	logger  *slog.Logger

	current atomic.Pointer[leaderboard.Controller]
}

// NewTimeline prepares a timeline. Nothing runs until Run is called.
func NewTimeline(opts TimelineOptions) *Timeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Timeline{
		trials:  opts.Trials,
		remote:  opts.Remote,
		results: opts.Results,
		clock:   opts.Clock,
		logger:  logger,
	}
}

// Run executes every trial on display in order. onStart, if non-nil, is
// called before each trial begins. A failed trial is logged and recorded and
// the next one still runs; the failures are returned joined, each wrapped
// with its trial's name. Cancelling ctx stops the timeline.
func (t *Timeline) Run(ctx context.Context, display leaderboard.Display, onStart func(TrialStart)) error {
	total := len(t.trials)
	var errs []error
	for i, trial := range t.trials {
		params := trial.Params
		if trial.Remote() && t.remote != nil {
			params.Remote = t.remote
		}

		name := trial.Name
		ctrl := leaderboard.NewController(leaderboard.Options{
			Params:  params,
			Display: display,
			Host:    leaderboard.HostFunc(func(out leaderboard.Output) { t.save(ctx, name, out) }),
			Clock:   t.clock,
			Logger:  t.logger.With("name", name),
		})

		t.current.Store(ctrl)
		if onStart != nil {
			onStart(TrialStart{Index: i, Total: total, Name: name, TrialID: ctrl.TrialID()})
		}
		t.logger.Info("trial starting", "name", name, "trial", ctrl.TrialID(), "position", i+1, "total", total)

		err := ctrl.Run(ctx)
		t.current.Store(nil)
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("trial %q: %w", name, ctx.Err()))
			return errors.Join(errs...)
		}
		if err != nil {
			t.logger.Error("trial failed; continuing with the next trial", "name", name, "trial", ctrl.TrialID(), "error", err)
			errs = append(errs, fmt.Errorf("trial %q: %w", name, err))
		}
	}
	t.logger.Info("timeline finished", "trials", total, "failed", len(errs))
	return errors.Join(errs...)
}

// Continue activates the continue control of the running trial.
func (t *Timeline) Continue() {
	if ctrl := t.current.Load(); ctrl != nil {
		ctrl.Continue()
	}
}

// Snapshot returns the running trial's committed rows. ok is false between
// trials.
func (t *Timeline) Snapshot() (state.Snapshot[leaderboard.Row], bool) {
	ctrl := t.current.Load()
	if ctrl == nil {
		return state.Snapshot[leaderboard.Row]{}, false
	}
	return ctrl.Snapshot(), true
}

// save records a finished trial. A cancelled run is still recorded.
func (t *Timeline) save(ctx context.Context, name string, out leaderboard.Output) {
	if t.results == nil {
		return
	}
	if err := t.results.Save(context.WithoutCancel(ctx), results.FromOutput(name, out)); err != nil {
		t.logger.Warn("save trial result failed", "trial", out.TrialID, "error", err)
	}
}

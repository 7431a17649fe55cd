package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/five82/leaderboard/internal/state"
)

// ErrAlreadyRun is returned when Run is called more than once.
var ErrAlreadyRun = errors.New("trial already run")

// TrialState is the lifecycle state of a Controller.
type TrialState int32

const (
	StateValidating TrialState = iota
	StateLoading
	StateDisplaying
	StateTerminating
	StateTerminated
)

func (s TrialState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Options configure a Controller.
type Options struct {
	Params  Params
	Display Display      // nil draws nothing
	Host    Host         // nil drops the output
	Clock   Clock        // nil uses SystemClock
	Logger  *slog.Logger // nil discards logs
	TrialID string       // empty generates a random id
}

// Controller runs one leaderboard trial from validation to completion. All
// state changes happen on the goroutine that calls Run.
type Controller struct {
	params  Params
	display Display
	host    Host
	clock   Clock
	logger  *slog.Logger
	trialID string

	state      atomic.Int32
	started    atomic.Bool
	continueCh chan struct{}
	store      *state.Store[Row]

	// Set once the trial reaches Displaying.
	columns      []ColumnSpec
	styles       string
	showContinue bool
}

// NewController prepares a trial. Nothing happens until Run is called.
func NewController(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	display := opts.Display
	if display == nil {
		display = nopDisplay{}
	}
	host := opts.Host
	if host == nil {
		host = HostFunc(func(Output) {})
	}
	id := opts.TrialID
	if id == "" {
		id = uuid.NewString()
	}
	return &Controller{
		params:     opts.Params,
		display:    display,
		host:       host,
		clock:      clock,
		logger:     logger.With("trial", id),
		trialID:    id,
		continueCh: make(chan struct{}, 1),
		store:      state.NewStore[Row](clock.Now),
	}
}

// TrialID returns the id reported in the trial's output.
func (c *Controller) TrialID() string {
	return c.trialID
}

// State returns the current lifecycle state.
func (c *Controller) State() TrialState {
	return TrialState(c.state.Load())
}

// Snapshot returns the rows currently on display and refresh bookkeeping.
func (c *Controller) Snapshot() state.Snapshot[Row] {
	return c.store.Snapshot()
}

// Continue activates the continue control. It is ignored unless the trial is
// displaying a table without a duration.
func (c *Controller) Continue() {
	if c.State() != StateDisplaying {
		return
	}
	select {
	case c.continueCh <- struct{}{}:
	default:
	}
}

// Run drives the trial until it terminates and returns the trial's error:
// a *ConfigurationError, a *FetchError, ctx's error, or nil. The output is
// delivered to the host exactly once before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	out := Output{TrialID: c.trialID, StartedAt: c.clock.Now()}
	c.setState(StateValidating)

	cfg, err := c.params.Validate()
	if err != nil {
		c.logger.Error("invalid trial parameters", "error", err)
		return c.terminate(out, nil, TriggerError, err)
	}

	rows, columns, err := c.load(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return c.terminate(out, nil, TriggerCancelled, ctx.Err())
		}
		c.logger.Error("leaderboard load failed", "error", err)
		return c.terminate(out, nil, TriggerError, err)
	}

	c.columns = columns
	c.styles = cfg.TableStyles
	c.showContinue = cfg.Duration == nil
	c.setState(StateDisplaying)
	c.show(rows)

	sched := NewRefreshScheduler(cfg, c.clock, c.logger)
	if sched.Start(ctx) {
		c.logger.Info("refresh scheduler started", "interval", cfg.RefreshInterval)
	}

	var deadline <-chan time.Time
	if cfg.Duration != nil {
		timer := c.clock.NewTimer(*cfg.Duration)
		defer timer.Stop()
		deadline = timer.C()
	}

	for {
		select {
		case <-deadline:
			return c.terminate(out, sched, TriggerDuration, nil)
		case <-c.continueCh:
			if !c.showContinue {
				continue
			}
			return c.terminate(out, sched, TriggerContinue, nil)
		case r := <-sched.Updates():
			c.applyRefresh(r)
		case <-ctx.Done():
			return c.terminate(out, sched, TriggerCancelled, ctx.Err())
		}
	}
}

func (c *Controller) load(ctx context.Context, cfg TrialConfig) ([]Row, []ColumnSpec, error) {
	if remote, ok := cfg.Remote(); ok {
		c.setState(StateLoading)
		c.display.ShowLoading(cfg.LoadingMessage)
		c.logger.Info("loading leaderboard", "leaderboard", remote.LeaderboardID, "level", string(remote.Level))
	}
	rows, columns, err := Resolve(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info("leaderboard data loaded", "rows", len(rows), "columns", len(columns))
	return rows, columns, nil
}

// show renders rows, swaps them onto the display, and only then commits them
// as the current rows.
func (c *Controller) show(rows []Row) {
	c.display.ShowTable(View{
		TrialID:      c.trialID,
		Table:        Render(rows, c.columns),
		Styles:       c.styles,
		ShowContinue: c.showContinue,
		UpdatedAt:    c.clock.Now(),
	})
	c.store.Commit(rows)
}

func (c *Controller) applyRefresh(r Refresh) {
	if r.Err != nil {
		c.store.Fail(r.Err)
		c.logger.Warn("leaderboard refresh failed; keeping previous table",
			"error", r.Err,
			"failures", c.store.Snapshot().ConsecutiveFailures)
		return
	}
	c.show(r.Rows)
	c.logger.Debug("leaderboard refreshed", "rows", len(r.Rows))
}

// terminate stops the scheduler before touching the display so no refresh can
// land on a cleared screen, then reports the output.
func (c *Controller) terminate(out Output, sched *RefreshScheduler, trigger Trigger, err error) error {
	c.setState(StateTerminating)
	if sched != nil {
		sched.Stop()
	}
	c.display.Clear()
	if trigger == TriggerError {
		c.display.ShowError(err)
	}

	out.Trigger = trigger
	out.Err = err
	out.EndedAt = c.clock.Now()
	if trigger != TriggerError {
		snap := c.store.Snapshot()
		out.Rows = snap.Items
		out.Columns = cloneColumns(c.columns)
		if snap.Commits > 0 {
			out.Refreshes = snap.Commits - 1
		}
	}
	c.host.ReportCompletion(out)
	c.setState(StateTerminated)

	c.logger.Info("trial finished",
		"trigger", string(trigger),
		"rows", len(out.Rows),
		"refreshes", out.Refreshes,
		"elapsed", out.Elapsed())
	return err
}

func (c *Controller) setState(s TrialState) {
	c.state.Store(int32(s))
}

type nopDisplay struct{}

func (nopDisplay) ShowLoading(string) {}
func (nopDisplay) ShowTable(View)     {}
func (nopDisplay) ShowError(error)    {}
func (nopDisplay) Clear()             {}

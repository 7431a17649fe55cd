package leaderboard

import (
	"context"
	"log/slog"
	"sync"
)

// SchedulerState is the lifecycle state of a RefreshScheduler.
type SchedulerState int

const (
	SchedulerIdle SchedulerState = iota
	SchedulerRunning
	SchedulerStopped
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerRunning:
		return "running"
	case SchedulerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Refresh is the outcome of one scheduled fetch.
type Refresh struct {
	Rows []Row
	Err  error
}

// RefreshScheduler re-fetches remote scores on a fixed cadence while a trial
// is displayed. Results are delivered on Updates; the scheduler never applies
// them itself.
type RefreshScheduler struct {
	cfg    TrialConfig
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	state   SchedulerState
	ticker  Ticker
	cancel  context.CancelFunc
	updates chan Refresh
}

// NewRefreshScheduler builds an idle scheduler for cfg.
func NewRefreshScheduler(cfg TrialConfig, clock Clock, logger *slog.Logger) *RefreshScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RefreshScheduler{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		updates: make(chan Refresh),
	}
}

// State returns the current lifecycle state.
func (s *RefreshScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates delivers fetch outcomes while the scheduler runs.
func (s *RefreshScheduler) Updates() <-chan Refresh {
	return s.updates
}

// Start begins refreshing when the trial uses a remote source and a positive
// refresh interval. It reports whether the scheduler is now running.
func (s *RefreshScheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SchedulerIdle {
		return false
	}
	remote, ok := s.cfg.Remote()
	if !ok || s.cfg.RefreshInterval <= 0 {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.ticker = s.clock.NewTicker(s.cfg.RefreshInterval)
	s.state = SchedulerRunning

	go s.loop(ctx, s.ticker, remote)
	return true
}

// Stop halts the ticker and cancels any in-flight fetch. Its result, if one
// still arrives, is dropped. Calling Stop more than once is a no-op.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SchedulerStopped:
		return
	case SchedulerRunning:
		s.ticker.Stop()
		s.cancel()
	}
	s.state = SchedulerStopped
}

func (s *RefreshScheduler) loop(ctx context.Context, ticker Ticker, remote RemoteSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}

		rows, err := remote.Fetch(ctx)
		if ctx.Err() != nil {
			s.logger.Debug("discarding refresh after stop", "leaderboard", remote.LeaderboardID)
			return
		}
		select {
		case s.updates <- Refresh{Rows: rows, Err: err}:
		case <-ctx.Done():
			return
		}
	}
}

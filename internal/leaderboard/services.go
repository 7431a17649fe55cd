package leaderboard

import "time"

// Host receives the trial's final output.
type Host interface {
	ReportCompletion(Output)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(Output)

// ReportCompletion calls f(out).
func (f HostFunc) ReportCompletion(out Output) { f(out) }

// View is what the display shows while a trial is running.
type View struct {
	TrialID      string
	Table        Table
	Styles       string
	ShowContinue bool
	UpdatedAt    time.Time
}

// Display is the surface a trial draws on.
type Display interface {
	ShowLoading(message string)
	ShowTable(View)
	ShowError(error)
	Clear()
}

// Timer is a one-shot timer.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Ticker fires repeatedly until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides the time facilities used by trials.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTimer struct{ t *time.Timer }

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

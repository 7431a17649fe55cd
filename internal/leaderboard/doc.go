// Package leaderboard implements the leaderboard trial: a ranked score table
// shown to a participant, optionally refreshed from a remote leaderboard,
// that ends after a fixed duration or when the participant continues.
//
// # Overview
//
// A host builds Params, hands them to NewController together with a Display,
// a Host and a Clock, and calls Run. The controller owns the whole lifecycle:
//
//	Validating → [Loading] → Displaying → Terminating → Terminated
//
// Loading is only entered for remote sources. Any state may jump to
// Terminating on a fatal error or when the context is cancelled.
//
// # Components
//
//   - params.go: Params.Validate turns the option bag into an immutable
//     TrialConfig, or a *ConfigurationError before anything is fetched
//   - resolve.go: Resolve produces the rows and columns to show; columns
//     default to the first row's keys (static) or name and score (remote)
//   - render.go: Render maps rows and columns to a Table of strings;
//     WriteHTML emits the same table as an HTML fragment
//   - scheduler.go: RefreshScheduler re-fetches remote rows on a ticker and
//     delivers results to the controller loop
//   - controller.go: Controller, the trial state machine
//   - services.go: Host, Display and Clock, the runtime the trial is given
//
// # Concurrency
//
// All trial state changes happen on the goroutine that calls Run. The
// scheduler fetches on its own goroutine and hands results over an unbuffered
// channel; once Stop returns, no result is delivered, even one that was
// already in flight. Readers outside the loop use Controller.Snapshot, which
// returns a copy of the committed rows.
//
// # Refresh Failures
//
// The initial remote fetch is fatal: the trial ends with a *FetchError. A
// failed refresh is not. The previous table stays on screen, the failure is
// recorded in the snapshot and logged, and the next tick tries again.
//
// # Output
//
// Exactly one Output is reported to the Host when the trial ends. It carries
// the rows that were on display, the columns, what ended the trial
// (duration, continue, error or cancelled), start and end times, and how many
// refreshes were applied.
//
// # Usage Example
//
//	ctrl := leaderboard.NewController(leaderboard.Options{
//		Params: leaderboard.Params{
//			LeaderboardID:   "study-42",
//			Remote:          client,
//			RefreshInterval: 5 * time.Second,
//		},
//		Display: display,
//		Host:    leaderboard.HostFunc(func(out leaderboard.Output) { save(out) }),
//		Logger:  logger,
//	})
//	if err := ctrl.Run(ctx); err != nil {
//		return err
//	}
package leaderboard

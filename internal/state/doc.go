// Package state provides a thread-safe snapshot store for leaderboard rows.
//
// # Overview
//
// A running trial has exactly one writer for its "current rows": the trial
// controller's event loop. Everything else (the terminal header, the final
// output, tests) reads cloned snapshots. Store mediates between the two.
//
// # Core Types
//
// Store[T]:
//   - Holds the latest committed items plus refresh bookkeeping
//   - Uses sync.RWMutex; the lock is never held during I/O or rendering
//   - Zero value is ready to use
//
// Snapshot[T]:
//   - Immutable copy returned by value
//   - Items slice and error are copied, so readers cannot mutate the store
//
// # Update Semantics
//
//	// Successful fetch: replace items, clear error
//	store.Commit(rows)
//	→ snapshot.Items = rows
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failed refresh: keep items, record error
//	store.Fail(err)
//	→ snapshot.Items = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Keeping the previous items on failure is what lets a trial keep showing the
// last good leaderboard while the remote service is unavailable. IsStale
// reports two or more failures in a row so the UI can say so.
//
// # Usage Example
//
//	store := state.NewStore[leaderboard.Row](clock.Now)
//	store.Commit(rows)
//
//	snap := store.Snapshot()
//	if snap.IsStale() {
//		showWarning(snap.LastError)
//	}
package state

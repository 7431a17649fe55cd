package state

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the stored items.
type Snapshot[T any] struct {
	Items               []T
	HasItems            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // failed updates since the last success
	Commits             int // successful updates, including the first
}

// IsStale returns true when the most recent updates have failed repeatedly.
func (s Snapshot[T]) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates a single writer with any number of snapshot readers.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	now      func() time.Time
}

// NewStore returns a store that timestamps updates with now. A nil now uses
// time.Now.
func NewStore[T any](now func() time.Time) *Store[T] {
	return &Store[T]{now: now}
}

// Commit replaces the stored items and clears any recorded error.
func (s *Store[T]) Commit(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Items = slices.Clone(items)
	s.snapshot.HasItems = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = s.timestamp()
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Commits++
}

// Fail records a failed update. The previous items are kept.
func (s *Store[T]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = s.timestamp()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = slices.Clone(s.snapshot.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store[T]) timestamp() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

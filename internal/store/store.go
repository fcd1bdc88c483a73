// ABOUTME: Store owns the process-wide state behind one RWMutex.
// ABOUTME: View/Update closures are the only access paths to state.
package store

import "sync"

// Store serializes access to the in-memory dataset. Writers hold the
// exclusive lock across the whole ingestion pipeline, persistence flush
// included, so readers never observe state ahead of an in-flight flush.
type Store struct {
	mu    sync.RWMutex
	state *State
}

// New returns a store wrapping the given state. A nil state starts empty.
func New(state *State) *Store {
	if state == nil {
		state = NewState()
	}
	return &Store{state: state}
}

// View runs fn with shared read access. Reads may run concurrently with
// each other but block behind an in-flight update.
func (s *Store) View(fn func(*State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// Update runs fn with exclusive access. Any error from fn is returned
// verbatim; the mutation fn performed is kept either way.
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

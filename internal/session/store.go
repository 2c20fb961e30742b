package session

import (
	"sync"
	"time"
)

// Store is the single lock-guarded cell holding State. Every task gets the
// same *Store and holds the lock only for the duration of one mutation;
// never across network I/O.
type Store struct {
	mu sync.Mutex
	st State
}

// NewStore creates a store seeded with the given state.
func NewStore(st State) *Store {
	if st.Bars == nil {
		st.Bars = make([]float64, BandCount)
	}
	if st.logs == nil {
		st.logs = NewLog(LogCapacity)
	}
	return &Store{st: st}
}

// NewDefaultStore creates a store with startup defaults.
func NewDefaultStore() *Store {
	return NewStore(NewState(time.Now()))
}

// Update runs fn with exclusive access to the state. fn must not block.
func (s *Store) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}

// Snapshot returns a detached copy of the state for rendering or for
// computing request inputs outside the lock.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Logf appends a diagnostic line under the lock.
func (s *Store) Logf(format string, args ...any) {
	s.Update(func(st *State) { st.Logf(format, args...) })
}

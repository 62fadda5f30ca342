package scheduler

import "sync"

// Locks serializes schedule-mutating operations per user. One instance is
// shared by the schedule service and the execution tracker so a generation
// and a status update on the same user never interleave. Entries are created
// on first use and evicted once the last holder releases, so the map never
// grows beyond the set of users with an operation in flight.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks returns an empty keyed lock set.
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock acquires the user's mutex and returns the release function.
func (l *Locks) Lock(userID string) func() {
	l.mu.Lock()
	e, ok := l.entries[userID]
	if !ok {
		e = &lockEntry{}
		l.entries[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, userID)
		}
		l.mu.Unlock()
	}
}

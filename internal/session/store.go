package session

import "sync"

// Manager orchestrates per-user sessions. Implementations must serialize
// Update calls per user id: handlers read-modify-write sessions and two
// events for one user must never interleave.
type Manager interface {
	// Snapshot returns a copy of the user's session, creating it with the
	// initial value on first contact.
	Snapshot(userID int64) Session
	// Update runs fn on the user's session under the per-user lock.
	Update(userID int64, fn func(*Session))
	// Reset restores the initial value, keeping the session allocated.
	Reset(userID int64)
}

type entry struct {
	mu sync.Mutex
	s  Session
}

type memoryManager struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

// NewMemoryManager constructs the in-process Manager implementation.
func NewMemoryManager() Manager {
	return &memoryManager{sessions: make(map[int64]*entry)}
}

func (m *memoryManager) get(userID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{s: Initial()}
		m.sessions[userID] = e
	}
	return e
}

// Snapshot returns a copy of the session for a user.
func (m *memoryManager) Snapshot(userID int64) Session {
	e := m.get(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s
}

// Update mutates the session under the per-user lock.
func (m *memoryManager) Update(userID int64, fn func(*Session)) {
	e := m.get(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.s)
}

// Reset restores the fixed initial value for a user.
func (m *memoryManager) Reset(userID int64) {
	m.Update(userID, func(s *Session) {
		*s = Initial()
	})
}

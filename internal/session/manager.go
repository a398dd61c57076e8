package session

import (
	"sync"
	"time"

	"github.com/inkcell/surface/internal/shared/id"
)

// Stats summarizes the manager's session population.
type Stats struct {
	ActiveSessions int        `json:"active_sessions"`
	LastCreated    *time.Time `json:"last_created,omitempty"`
	LastDisposed   *time.Time `json:"last_disposed,omitempty"`
}

// Manager tracks live sessions by id so transports can route reconnects
// and inbound frames to the right one.
type Manager struct {
	sessions     sync.Map
	mu           sync.RWMutex
	lastCreated  *time.Time
	lastDisposed *time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Track registers a live session.
func (m *Manager) Track(s *Session) {
	m.sessions.Store(s.ID(), s)

	m.mu.Lock()
	now := time.Now()
	m.lastCreated = &now
	m.mu.Unlock()
}

// Get returns a tracked session by id.
func (m *Manager) Get(sessionID id.SessionID) (*Session, bool) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Release disposes a session and forgets it.
func (m *Manager) Release(sessionID id.SessionID) bool {
	v, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return false
	}
	v.(*Session).Dispose()

	m.mu.Lock()
	now := time.Now()
	m.lastDisposed = &now
	m.mu.Unlock()

	return true
}

// ReleaseAll disposes every tracked session. Used at shutdown.
func (m *Manager) ReleaseAll() {
	m.sessions.Range(func(key, value interface{}) bool {
		value.(*Session).Dispose()
		m.sessions.Delete(key)
		return true
	})
}

// Stats returns session manager statistics.
func (m *Manager) Stats() Stats {
	var active int
	m.sessions.Range(func(_, _ interface{}) bool {
		active++
		return true
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		ActiveSessions: active,
		LastCreated:    m.lastCreated,
		LastDisposed:   m.lastDisposed,
	}
}

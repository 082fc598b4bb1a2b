package session

import "sync"

// Manager keeps the live session for each player.
type Manager struct {
	sessions map[int64]*Controller
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Controller),
	}
}

func (m *Manager) Get(id int64) *Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// GetOrCreate returns the player's session, creating it with create when
// there is none.
func (m *Manager) GetOrCreate(id int64, create func() *Controller) (*Controller, bool) {
	if c := m.Get(id); c != nil {
		return c, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[id]; ok {
		return c, false
	}
	c := create()
	m.sessions[id] = c
	return c, true
}

// Delete closes and forgets the player's session.
func (m *Manager) Delete(id int64) {
	m.mu.Lock()
	c := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if c != nil {
		c.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll cancels every session's pending steps.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.sessions {
		c.Close()
	}
}

package store

import (
	"sync"

	"github.com/avrudenko/lingvobot/internal/models"
)

// MemoryPreferences is the in-memory preference store used when no
// database is configured.
type MemoryPreferences struct {
	mu    sync.RWMutex
	prefs map[int64]string
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{
		prefs: make(map[int64]string),
	}
}

func (m *MemoryPreferences) Get(userID int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.prefs[userID]
	return code, ok
}

func (m *MemoryPreferences) Set(userID int64, languageCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[userID] = languageCode
	return nil
}

func (m *MemoryPreferences) Delete(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, userID)
	return nil
}

// MemorySessions holds active game sessions. Sessions are always
// memory-resident and do not survive a restart.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[int64]*models.GameSession
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[int64]*models.GameSession),
	}
}

func (m *MemorySessions) Get(userID int64) (*models.GameSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

func (m *MemorySessions) Set(session *models.GameSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = session
}

func (m *MemorySessions) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

package memory

import (
	"sync"

	"sdlc-quest/internal/app"
)

// SessionStore keeps player sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*app.Session)}
}

// GetOrCreate returns the player's session, creating a fresh game on first use.
func (s *SessionStore) GetOrCreate(playerID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		session = app.NewSession(playerID)
		s.sessions[playerID] = session
	}
	return session
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

// DeleteIfEmpty drops the session once no connection holds it.
func (s *SessionStore) DeleteIfEmpty(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[playerID]; ok && session.IsEmpty() {
		delete(s.sessions, playerID)
	}
}

// Touch is a no-op; in-process sessions do not expire.
func (s *SessionStore) Touch(string) {}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

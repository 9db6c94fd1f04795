package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"sdlc-quest/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Game state stays in the local map; Redis only carries a liveness marker per
// player so other instances and operators can see who is playing. Progress is
// never written to Redis.
type SessionStore struct {
	client   redis.Cmdable
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(playerID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		session = app.NewSession(playerID)
		s.sessions[playerID] = session
	}
	// best-effort liveness marker, refreshed on every join
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok || !session.IsEmpty() {
		return
	}
	delete(s.sessions, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

// Touch refreshes the liveness marker of a session held by this instance,
// so long games outlive the TTL.
func (s *SessionStore) Touch(playerID string) {
	s.mu.RLock()
	_, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
}

// Count returns the number of sessions held by this instance.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(playerID string) string {
	return "sdlc:session:" + playerID
}

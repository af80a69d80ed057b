package store

import (
	"context"
	"sync"
	"time"

	"github.com/paydemo/paydemo/internal/model"
)

// MemorySessions is an in-memory SessionStore with lazy expiry.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	now      Clock
}

// NewMemorySessions creates an empty MemorySessions. A nil clock uses time.Now.
func NewMemorySessions(now Clock) *MemorySessions {
	if now == nil {
		now = time.Now
	}
	return &MemorySessions{
		sessions: make(map[string]model.Session),
		now:      now,
	}
}

// CreateSession stores a copy of session.
func (s *MemorySessions) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.Token]; exists {
		return ErrTokenExists
	}
	s.sessions[session.Token] = *session
	return nil
}

// GetSession returns the session for token. Expired sessions are reported
// as not found; Sweep reclaims them.
func (s *MemorySessions) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || session.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes token if present.
func (s *MemorySessions) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Sweep deletes expired sessions and returns how many were removed.
func (s *MemorySessions) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemorySessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid.
	DefaultTokenTTL = 24 * time.Hour
	// maxTokenRetries bounds regeneration after a token collision.
	maxTokenRetries = 3
)

// SessionService issues, resolves and revokes bearer tokens.
type SessionService struct {
	sessions store.SessionStore
	ttl      time.Duration
	now      store.Clock
	metrics  metrics.Recorder
}

// NewSessionService creates a SessionService. A non-positive ttl uses
// DefaultTokenTTL and a nil clock uses time.Now.
func NewSessionService(sessions store.SessionStore, ttl time.Duration, now store.Clock, recorder metrics.Recorder) *SessionService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SessionService{
		sessions: sessions,
		ttl:      ttl,
		now:      now,
		metrics:  recorder,
	}
}

// TTL returns the lifetime given to new tokens.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a fresh token for username. Earlier tokens stay valid.
func (s *SessionService) Issue(ctx context.Context, username string) (*model.Session, error) {
	for i := 0; i < maxTokenRetries; i++ {
		token, err := auth.GenerateToken()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}

		now := s.now().UTC()
		session := &model.Session{
			Token:     token,
			Username:  username,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.ttl),
		}

		err = s.sessions.CreateSession(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, store.ErrTokenExists) {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return nil, errors.New("failed to generate unique token after retries")
}

// Resolve returns the username bound to token.
func (s *SessionService) Resolve(ctx context.Context, token string) (string, error) {
	if !auth.ValidateTokenFormat(token) {
		return "", ErrInvalidToken
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired(s.now()) {
		return "", ErrInvalidToken
	}

	return session.Username, nil
}

// Revoke invalidates token. Revoking an unknown token succeeds.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.metrics.IncLogout()
	return nil
}

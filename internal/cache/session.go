package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

// sessionPrefix is the Redis key prefix for sessions.
// Keys carry a digest of the token, never the token itself.
const sessionPrefix = "session:"

// cachedSession is the JSON value stored per session key.
type cachedSession struct {
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

var _ store.SessionStore = (*SessionStore)(nil)

// SessionStore implements store.SessionStore on Redis.
// Expiry is delegated to key TTLs.
type SessionStore struct {
	cache *Cache
	now   store.Clock
}

// NewSessionStore creates a SessionStore. A nil clock uses time.Now.
func NewSessionStore(c *Cache, now store.Clock) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{cache: c, now: now}
}

// sessionKey derives the Redis key for a token.
func sessionKey(token string) string {
	return sessionPrefix + auth.QuickHash(token)
}

// CreateSession stores the session with SET NX and a TTL matching ExpiresAt.
func (s *SessionStore) CreateSession(ctx context.Context, session *model.Session) error {
	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return fmt.Errorf("session already expired at %s", session.ExpiresAt.Format(time.RFC3339))
		}
	}

	data, err := json.Marshal(cachedSession{
		Username:  session.Username,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := s.cache.client.SetNX(ctx, sessionKey(session.Token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return store.ErrTokenExists
	}
	return nil
}

// GetSession looks up a token. Missing, corrupted or expired entries are not found.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.cache.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, store.ErrSessionNotFound
	}

	session := &model.Session{
		Token:     token,
		Username:  cached.Username,
		IssuedAt:  cached.IssuedAt,
		ExpiresAt: cached.ExpiresAt,
	}
	if session.IsExpired(s.now()) {
		return nil, store.ErrSessionNotFound
	}
	return session, nil
}

// DeleteSession removes a token.
func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.cache.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

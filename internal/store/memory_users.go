package store

import (
	"context"
	"sync"

	"github.com/paydemo/paydemo/internal/model"
)

// MemoryUsers is an in-memory UserStore.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewMemoryUsers creates an empty MemoryUsers.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]model.User)}
}

// CreateUser stores a copy of user. The uniqueness check and the insert
// happen under one write lock.
func (s *MemoryUsers) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return ErrUsernameExists
	}
	s.users[user.Username] = *user
	return nil
}

// GetUserByUsername returns a copy of the stored user.
func (s *MemoryUsers) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Len returns the number of stored users.
func (s *MemoryUsers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

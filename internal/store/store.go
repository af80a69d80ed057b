// Package store defines the storage contracts for users, sessions and
// payments, with process-local in-memory implementations.
//
// Each in-memory store guards its own state with a sync.RWMutex: reads
// proceed concurrently, writes are mutually exclusive. No operation spans
// more than one store.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/paydemo/paydemo/internal/model"
)

// Common store errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenExists     = errors.New("token already exists")
	ErrPaymentExists   = errors.New("payment already exists")
)

// UserStore holds user records keyed by username.
type UserStore interface {
	// CreateUser inserts user; ErrUsernameExists if the username is taken.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByUsername returns ErrUserNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionStore maps bearer tokens to sessions.
type SessionStore interface {
	// CreateSession stores session; ErrTokenExists on a token collision.
	CreateSession(ctx context.Context, session *model.Session) error
	// GetSession returns ErrSessionNotFound for unknown or expired tokens.
	GetSession(ctx context.Context, token string) (*model.Session, error)
	// DeleteSession removes a token. Deleting an unknown token is not an error.
	DeleteSession(ctx context.Context, token string) error
}

// PaymentStore holds payment records.
type PaymentStore interface {
	// CreatePayment inserts payment; ErrPaymentExists on an id collision.
	CreatePayment(ctx context.Context, payment *model.Payment) error
	// ListPaymentsByOwner returns the owner's payments in creation order.
	ListPaymentsByOwner(ctx context.Context, ownerID string) ([]*model.Payment, error)
}

// Clock returns the current time. Stores use it for expiry checks.
type Clock func() time.Time

// Package service implements the account, session and payment rules on top
// of the storage contracts in package store.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// validationFailed wraps a field error so callers can match both
// ErrValidationFailed and the underlying *auth.ValidationError.
func validationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

// dummyPassword seeds the hash verified for unknown usernames.
const dummyPassword = "dummy-Passw0rd-for-timing"

// CredentialService registers users and verifies their passwords.
type CredentialService struct {
	users   store.UserStore
	hasher  *auth.Hasher
	now     store.Clock
	metrics metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialService creates a CredentialService. A nil hasher uses
// auth.DefaultParams and a nil clock uses time.Now.
func NewCredentialService(users store.UserStore, hasher *auth.Hasher, now store.Clock, recorder metrics.Recorder) *CredentialService {
	if hasher == nil {
		hasher = auth.NewHasher(auth.DefaultParams)
	}
	if now == nil {
		now = time.Now
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CredentialService{
		users:   users,
		hasher:  hasher,
		now:     now,
		metrics: recorder,
	}
}

// Register validates the input, hashes the password and stores a new user.
// Nothing is stored unless every field is valid.
func (s *CredentialService) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if err := validateRegistration(email, username, password); err != nil {
		s.metrics.IncRegistration(metrics.OutcomeInvalid)
		return nil, validationFailed(err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.metrics.IncRegistration(metrics.OutcomeDuplicate)
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncRegistration(metrics.OutcomeCreated)
	return user, nil
}

// Verify checks a username and password pair. Unknown users and wrong
// passwords both return ErrInvalidCredentials after a full digest.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		_, _ = s.verify(password, s.dummy())
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return user, nil
}

// Lookup returns the user record for username.
func (s *CredentialService) Lookup(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *CredentialService) hash(password string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePasswordHashDuration(time.Since(start)) }()
	return s.hasher.Hash(password)
}

func (s *CredentialService) verify(password, encoded string) (bool, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePasswordHashDuration(time.Since(start)) }()
	return s.hasher.Verify(password, encoded)
}

// dummy lazily derives the hash compared against for unknown usernames.
func (s *CredentialService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func validateRegistration(email, username, password string) error {
	if err := auth.ValidateUsername(username); err != nil {
		return err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	return auth.ValidateEmail(email)
}

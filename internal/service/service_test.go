package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

// testHasher keeps argon2 cheap in unit tests.
var testHasher = auth.NewHasher(auth.Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 32, SaltLen: 16})

// fakeClock is a settable store.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	clock       *fakeClock
	recorder    *metrics.InMemoryRecorder
	users       *store.MemoryUsers
	sessions    *store.MemorySessions
	payments    *store.MemoryPayments
	credentials *CredentialService
	tokens      *SessionService
	gate        *Gate
	payment     *PaymentService
}

func newTestEnv() *testEnv {
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	recorder := metrics.NewInMemory()
	users := store.NewMemoryUsers()
	sessions := store.NewMemorySessions(clock.Now)
	payments := store.NewMemoryPayments()

	credentials := NewCredentialService(users, testHasher, clock.Now, recorder)
	tokens := NewSessionService(sessions, time.Hour, clock.Now, recorder)

	return &testEnv{
		clock:       clock,
		recorder:    recorder,
		users:       users,
		sessions:    sessions,
		payments:    payments,
		credentials: credentials,
		tokens:      tokens,
		gate:        NewGate(tokens, credentials, recorder),
		payment:     NewPaymentService(payments, nil, clock.Now, recorder),
	}
}

// failingUsers is a UserStore whose reads fail.
type failingUsers struct {
	store.UserStore
	err error
}

func (f failingUsers) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, f.err
}

var errBackend = errors.New("backend unavailable")

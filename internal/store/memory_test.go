package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydemo/paydemo/internal/model"
)

func TestMemoryUsers_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryUsers()

	user := &model.User{ID: "u1", Username: "alice01", Email: "alice@example.com", PasswordHash: "h1"}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, *user, *got)

	// Mutating the returned copy must not touch the store.
	got.Email = "mallory@example.com"
	again, err := s.GetUserByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", again.Email)
}

func TestMemoryUsers_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryUsers()

	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "u1", Username: "alice01", PasswordHash: "first"}))
	err := s.CreateUser(ctx, &model.User{ID: "u2", Username: "alice01", PasswordHash: "second"})
	require.ErrorIs(t, err, ErrUsernameExists)

	got, err := s.GetUserByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "first", got.PasswordHash)
}

func TestMemoryUsers_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewMemoryUsers().GetUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUsers_ConcurrentDuplicateRegistrations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryUsers()

	const workers = 32
	var wg sync.WaitGroup
	var created atomic.Int32

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.CreateUser(ctx, &model.User{ID: fmt.Sprintf("u%d", i), Username: "contested"})
			if err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, s.Len())
}

func TestMemorySessions_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemorySessions(func() time.Time { return now })

	session := &model.Session{Token: "tok", Username: "alice01", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.CreateSession(ctx, session))
	require.ErrorIs(t, s.CreateSession(ctx, session), ErrTokenExists)

	got, err := s.GetSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice01", got.Username)

	require.NoError(t, s.DeleteSession(ctx, "tok"))
	_, err = s.GetSession(ctx, "tok")
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is fine.
	require.NoError(t, s.DeleteSession(ctx, "tok"))
}

func TestMemorySessions_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := NewMemorySessions(clock)

	require.NoError(t, s.CreateSession(ctx, &model.Session{Token: "short", Username: "a", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, s.CreateSession(ctx, &model.Session{Token: "long", Username: "a", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Minute)

	_, err := s.GetSession(ctx, "short")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.GetSession(ctx, "long")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestMemorySessions_MultipleTokensPerUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemorySessions(nil)

	require.NoError(t, s.CreateSession(ctx, &model.Session{Token: "t1", Username: "alice01"}))
	require.NoError(t, s.CreateSession(ctx, &model.Session{Token: "t2", Username: "alice01"}))

	for _, tok := range []string{"t1", "t2"} {
		got, err := s.GetSession(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "alice01", got.Username)
	}
}

func TestMemoryPayments_ListByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPayments()

	for i := 0; i < 5; i++ {
		owner := "alice"
		if i%2 == 1 {
			owner = "bob"
		}
		require.NoError(t, s.CreatePayment(ctx, &model.Payment{
			ID:      fmt.Sprintf("p%d", i),
			OwnerID: owner,
			Amount:  model.Amount(100 * (i + 1)),
			Status:  model.PaymentCompleted,
		}))
	}

	alice, err := s.ListPaymentsByOwner(ctx, "alice")
	require.NoError(t, err)
	bob, err := s.ListPaymentsByOwner(ctx, "bob")
	require.NoError(t, err)

	var aliceIDs, bobIDs []string
	for _, p := range alice {
		assert.Equal(t, "alice", p.OwnerID)
		aliceIDs = append(aliceIDs, p.ID)
	}
	for _, p := range bob {
		assert.Equal(t, "bob", p.OwnerID)
		bobIDs = append(bobIDs, p.ID)
	}

	assert.Equal(t, []string{"p0", "p2", "p4"}, aliceIDs)
	assert.Equal(t, []string{"p1", "p3"}, bobIDs)
	for _, id := range aliceIDs {
		assert.NotContains(t, bobIDs, id)
	}
}

func TestMemoryPayments_EmptyOwner(t *testing.T) {
	t.Parallel()

	got, err := NewMemoryPayments().ListPaymentsByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryPayments_DuplicateID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPayments()

	require.NoError(t, s.CreatePayment(ctx, &model.Payment{ID: "p1", OwnerID: "a"}))
	require.ErrorIs(t, s.CreatePayment(ctx, &model.Payment{ID: "p1", OwnerID: "b"}), ErrPaymentExists)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryPayments_StoredCopyIsIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPayments()

	p := &model.Payment{ID: "p1", OwnerID: "a", Card: &model.CardMetadata{LastFour: "1111"}}
	require.NoError(t, s.CreatePayment(ctx, p))
	p.Card.LastFour = "9999"

	got, err := s.ListPaymentsByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1111", got[0].Card.LastFour)
}

func TestMemoryPayments_ConcurrentInserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryPayments()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.CreatePayment(ctx, &model.Payment{ID: fmt.Sprintf("p%d", i), OwnerID: "alice"})
		}(i)
	}
	wg.Wait()

	got, err := s.ListPaymentsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, workers)
}

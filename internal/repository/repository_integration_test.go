//go:build integration

package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
	"github.com/paydemo/paydemo/internal/testutil"
)

// newIntegrationRepo resets the schema and returns a Repository on it.
func newIntegrationRepo(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	require.NoError(t, err)
	t.Cleanup(func() { _ = unlock() })

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, ResetMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	return ctx, &Repository{pool: pool}
}

func TestIntegrationMigrate_Idempotent(t *testing.T) {
	ctx, _ := newIntegrationRepo(t)
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	require.NoError(t, Migrate(ctx, dbURL))
	require.NoError(t, Migrate(ctx, dbURL))
}

func TestIntegrationUsers_CreateAndGet(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, "alice01")
	require.NoError(t, repo.CreateUser(ctx, user))

	got, err := repo.GetUserByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)

	_, err = repo.GetUserByUsername(ctx, "Alice01")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestIntegrationUsers_DuplicateUsername(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	require.NoError(t, repo.CreateUser(ctx, testutil.NewTestUser(t, "bob_02")))
	err := repo.CreateUser(ctx, testutil.NewTestUser(t, "bob_02"))
	require.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestIntegrationUsers_ConcurrentRegistration(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	const workers = 8
	username := testutil.UniqueUsername("racer")
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.CreateUser(ctx, testutil.NewTestUser(t, username)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestIntegrationPayments_ListByOwner(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	alice := testutil.NewTestUser(t, "alice01")
	bob := testutil.NewTestUser(t, "bob_02")
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, bob))

	base := time.Now().UTC().Truncate(time.Microsecond)
	first := testutil.NewTestPayment(t, ulid.Make().String(), alice.ID, 4250)
	first.CreatedAt = base
	first.Card = &model.CardMetadata{LastFour: "4242", HolderName: "Alice", ExpiryMonth: 12, ExpiryYear: 2030}
	second := testutil.NewTestPayment(t, ulid.Make().String(), alice.ID, 100)
	second.CreatedAt = base.Add(time.Millisecond)
	other := testutil.NewTestPayment(t, ulid.Make().String(), bob.ID, 999)

	require.NoError(t, repo.CreatePayment(ctx, first))
	require.NoError(t, repo.CreatePayment(ctx, second))
	require.NoError(t, repo.CreatePayment(ctx, other))
	require.ErrorIs(t, repo.CreatePayment(ctx, first), store.ErrPaymentExists)

	got, err := repo.ListPaymentsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, model.Amount(4250), got[0].Amount)
	assert.Equal(t, model.PaymentCompleted, got[0].Status)
	require.NotNil(t, got[0].Card)
	assert.Equal(t, "4242", got[0].Card.LastFour)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Nil(t, got[1].Card)

	none, err := repo.ListPaymentsByOwner(ctx, testutil.NewTestUser(t, "nobody").ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

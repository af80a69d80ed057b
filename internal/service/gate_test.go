package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Authenticate(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.credentials.Register(ctx, "alice@example.com", "alice01", "Str0ngPass!")
	require.NoError(t, err)
	session, err := env.tokens.Issue(ctx, "alice01")
	require.NoError(t, err)

	user, err := env.gate.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	again, err := env.gate.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID, "authentication is repeatable")
}

func TestGate_Rejections(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.gate.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.gate.Authenticate(ctx, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJ0123456")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Token for a username that was never registered.
	orphan, err := env.tokens.Issue(ctx, "ghost")
	require.NoError(t, err)
	_, err = env.gate.Authenticate(ctx, orphan.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, uint64(3), env.recorder.Snapshot().AuthRejected)
}

func TestGate_ExpiredAndRevoked(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.credentials.Register(ctx, "alice@example.com", "alice01", "Str0ngPass!")
	require.NoError(t, err)

	expiring, err := env.tokens.Issue(ctx, "alice01")
	require.NoError(t, err)
	revoked, err := env.tokens.Issue(ctx, "alice01")
	require.NoError(t, err)

	require.NoError(t, env.tokens.Revoke(ctx, revoked.Token))
	_, err = env.gate.Authenticate(ctx, revoked.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	env.clock.Advance(2 * time.Hour)
	_, err = env.gate.Authenticate(ctx, expiring.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGate_BackendErrorIsNotUnauthorized(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	session, err := env.tokens.Issue(ctx, "alice01")
	require.NoError(t, err)

	credentials := NewCredentialService(failingUsers{err: errBackend}, testHasher, nil, nil)
	gate := NewGate(env.tokens, credentials, nil)

	_, err = gate.Authenticate(ctx, session.Token)
	require.ErrorIs(t, err, errBackend)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}


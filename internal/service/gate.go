package service

import (
	"context"
	"errors"

	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
)

// Gate turns a bearer token into the user it belongs to.
// It keeps no state between calls.
type Gate struct {
	sessions    *SessionService
	credentials *CredentialService
	metrics     metrics.Recorder
}

// NewGate creates a Gate.
func NewGate(sessions *SessionService, credentials *CredentialService, recorder metrics.Recorder) *Gate {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Gate{sessions: sessions, credentials: credentials, metrics: recorder}
}

// Authenticate resolves token to a user. Missing, unknown or expired
// tokens and tokens of deleted users all fail with ErrUnauthorized.
func (g *Gate) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		g.metrics.IncAuthRejected()
		return nil, ErrUnauthorized
	}

	username, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			g.metrics.IncAuthRejected()
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	user, err := g.credentials.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			g.metrics.IncAuthRejected()
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

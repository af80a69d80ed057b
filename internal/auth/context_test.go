package auth

import (
	"context"
	"testing"

	"github.com/paydemo/paydemo/internal/model"
)

func TestContextWithUser(t *testing.T) {
	t.Parallel()

	user := &model.User{ID: "u1", Username: "alice01"}
	ctx := ContextWithUser(context.Background(), user, "tok")

	if got := UserFromContext(ctx); got != user {
		t.Errorf("UserFromContext = %v, want %v", got, user)
	}
	if got := TokenFromContext(ctx); got != "tok" {
		t.Errorf("TokenFromContext = %q, want tok", got)
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	t.Parallel()

	if UserFromContext(context.Background()) != nil {
		t.Error("expected nil user on empty context")
	}
	if TokenFromContext(context.Background()) != "" {
		t.Error("expected empty token on empty context")
	}
}

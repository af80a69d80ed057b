package handler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/handler/dto"
	"github.com/paydemo/paydemo/internal/model"
)

// Credentials registers and verifies users. service.CredentialService
// implements it.
type Credentials interface {
	Register(ctx context.Context, email, username, password string) (*model.User, error)
	Verify(ctx context.Context, username, password string) (*model.User, error)
}

// Sessions issues and revokes tokens. service.SessionService implements it.
type Sessions interface {
	Issue(ctx context.Context, username string) (*model.Session, error)
	Revoke(ctx context.Context, token string) error
}

// AccountHandler handles registration, login, logout and the current user.
type AccountHandler struct {
	credentials Credentials
	sessions    Sessions
	logger      *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(credentials Credentials, sessions Sessions, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		credentials: credentials,
		sessions:    sessions,
		logger:      logger,
	}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.credentials.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, user.ToResponse())
}

// Token handles POST /token. It accepts an OAuth2 password-grant form or
// a JSON body with the same fields.
func (h *AccountHandler) Token(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseLogin(w, r)
	if !ok {
		return
	}

	if req.GrantType != "" && req.GrantType != "password" {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_GRANT_TYPE", "Only the password grant is supported")
		return
	}

	user, err := h.credentials.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	session, err := h.sessions.Issue(r.Context(), user.Username)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("token_issued",
		"user_id", user.ID,
		"expires_at", session.ExpiresAt,
	)

	writeJSON(w, http.StatusOK, model.TokenResponse{
		AccessToken: session.Token,
		TokenType:   model.TokenTypeBearer,
		ExpiresAt:   session.ExpiresAt,
	})
}

// Logout handles POST /logout. The presented token stops working; other
// tokens of the same user are unaffected.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == "" {
		writeUnauthorized(w, "UNAUTHORIZED", "Could not validate credentials")
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if user := auth.UserFromContext(r.Context()); user != nil {
		h.logger.Info("token_revoked", "user_id", user.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "UNAUTHORIZED", "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user.ToResponse())
}

// parseLogin reads credentials from a form or JSON body. It writes the
// error response itself and reports false on failure.
func (h *AccountHandler) parseLogin(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, bool) {
	var req dto.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
			return req, false
		}
		req.GrantType = r.PostForm.Get("grant_type")
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	default:
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return req, false
		}
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "username and password are required")
		return req, false
	}
	return req, true
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/storekit/storefront/pkg/httputil"
	"github.com/storekit/storefront/pkg/validator"

	"github.com/storekit/storefront/internal/auth"
	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/store"
)

// AuthHandler handles login and logout. Credentials are verified
// against the upstream catalog; a successful login mints a session
// bound to the username and returns a signed token for it.
type AuthHandler struct {
	catalog  *catalog.Client
	jwt      *auth.JWTManager
	sessions *store.Manager
	logger   *slog.Logger
}

func NewAuthHandler(c *catalog.Client, jwt *auth.JWTManager, sessions *store.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		catalog:  c,
		jwt:      jwt,
		sessions: sessions,
		logger:   logger,
	}
}

// LoginRequest is the JSON request body for logging in.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=100"`
}

// LoginResponse is the JSON payload returned on a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.catalog.Login(r.Context(), req.Username, req.Password); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := h.sessions.Create(req.Username)

	token, err := h.jwt.GenerateSessionToken(sess.ID, req.Username)
	if err != nil {
		h.sessions.Delete(sess.ID)
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in",
		slog.String("username", req.Username),
		slog.String("session_id", sess.ID),
	)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: LoginResponse{
		Token:     token,
		SessionID: sess.ID,
		Username:  req.Username,
	}})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	h.sessions.Delete(sid)

	h.logger.InfoContext(r.Context(), "session ended", slog.String("session_id", sid))

	w.WriteHeader(http.StatusNoContent)
}

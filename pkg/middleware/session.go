package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const (
	sessionIDKey contextKeyType = "session_id"
	usernameKey  contextKeyType = "username"
)

// SessionClaims represents the claims extracted from a session token.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// TokenValidator is a function that validates a session token and returns its
// claims. The auth package injects its own validation logic here.
type TokenValidator func(token string) (*SessionClaims, error)

// Session middleware resolves the storefront session for a request. It accepts
// either a Bearer session token (issued at login) or a bare X-Session-ID
// header for guest sessions, and injects the resolved session into context.
// Requests carrying neither are rejected with 401 Unauthorized.
func Session(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" {
				// Guest session via header.
				if sid := r.Header.Get("X-Session-ID"); sid != "" {
					ctx := context.WithValue(r.Context(), sessionIDKey, sid)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				writeAuthError(w, "missing session: provide a Bearer token or X-Session-ID header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "invalid authorization header format")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				writeAuthError(w, "invalid or expired session token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, claims.SessionID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// UsernameFromContext extracts the authenticated username from the request
// context. Empty for guest sessions.
func UsernameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(usernameKey).(string); ok {
		return name
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

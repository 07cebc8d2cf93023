package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/whispr/whispr/internal/auth"
	"github.com/whispr/whispr/internal/model"
)

// SessionValidator resolves a bearer token to its user and claims.
// Implemented by auth.Service.
type SessionValidator interface {
	UserFromToken(ctx context.Context, token string) (*model.User, *auth.Claims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Sessions SessionValidator
}

// RequireAuth returns a middleware that authenticates requests by bearer
// token. On success the resolved session is injected into the request
// context; on failure a 401 is written and the handler never runs.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeUnauthenticated(w)
				return
			}

			user, claims, err := cfg.Sessions.UserFromToken(r.Context(), token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeUnauthenticated(w)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), &auth.Session{
				User:   user,
				Claims: claims,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGuest returns a middleware that rejects authenticated callers.
// Login and registration are reachable only without a currently-valid
// token; a presented token that fails validation is treated as absent.
func RequireGuest(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token != "" {
				if _, _, err := cfg.Sessions.UserFromToken(r.Context(), token); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusForbidden)
					_, _ = w.Write([]byte(`{"message":"Already authenticated."}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeUnauthenticated writes a 401 response.
// Uses the same message for all auth failures to prevent enumeration.
func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
}

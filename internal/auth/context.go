package auth

import (
	"context"

	"github.com/whispr/whispr/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionContextKey is the context key for storing the current Session.
const sessionContextKey contextKey = "auth_session"

// Session is the resolved identity of an authenticated caller, injected
// into the request context by the auth middleware. Handlers receive the
// current user through it and never re-derive identity themselves.
type Session struct {
	User   *model.User
	Claims *Claims
}

// ContextWithSession adds a Session to the context.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext retrieves the Session from the context.
// Returns nil if the caller is not authenticated.
func SessionFromContext(ctx context.Context) *Session {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}

// MustSessionFromContext retrieves the Session from the context.
// Panics if not present (use only behind the auth middleware).
func MustSessionFromContext(ctx context.Context) *Session {
	session := SessionFromContext(ctx)
	if session == nil {
		panic("auth session not found - ensure auth middleware is applied")
	}
	return session
}

// UserIDFromContext is a convenience function to get the current user ID.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	session := SessionFromContext(ctx)
	if session == nil || session.User == nil {
		return ""
	}
	return session.User.ID
}

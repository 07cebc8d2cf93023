package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whispr/whispr/internal/auth"
	"github.com/whispr/whispr/internal/handler/dto"
	"github.com/whispr/whispr/internal/metrics"
	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/repository"
)

// Localized auth failure messages.
const (
	msgInvalidCredentials = "These credentials do not match our records."
	msgLoggedOut          = "Successfully logged out"
)

// usernamePattern restricts public handles to URL-safe characters, since
// usernames appear directly in routes like /{username}/send.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

// SessionService issues, refreshes, and revokes bearer tokens.
// Implemented by auth.Service.
type SessionService interface {
	Attempt(ctx context.Context, email, password string) (*auth.IssuedToken, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Refresh(ctx context.Context, claims *auth.Claims) (*auth.IssuedToken, error)
}

// LoginLimiter throttles failed login attempts per throttle key.
// Implemented by cache.LoginLimiter.
type LoginLimiter interface {
	TooManyAttempts(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) error
	Clear(ctx context.Context, key string) error
	AvailableIn(ctx context.Context, key string) (time.Duration, error)
}

// UserRegistry persists new accounts.
// Implemented by repository.Repository.
type UserRegistry interface {
	CreateUser(ctx context.Context, user *model.User) error
}

// AuthHandler handles login, logout, refresh, registration, and the
// current-user profile endpoint.
type AuthHandler struct {
	sessions SessionService
	limiter  LoginLimiter
	users    UserRegistry
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions SessionService, limiter LoginLimiter, users UserRegistry, logger *slog.Logger, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		limiter:  limiter,
		users:    users,
		logger:   logger,
		metrics:  recorder,
	}
}

// Login handles POST /auth/login.
// Throttle check, then credential attempt. A locked-out key gets a 429
// regardless of credential validity until the decay window elapses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	key := throttleKey(req.Email, clientIP(r))

	locked, err := h.limiter.TooManyAttempts(ctx, key)
	if err != nil {
		h.logger.Error("throttle check failed", slog.String("error", err.Error()))
		// Fail open: a throttle outage must not block logins.
		locked = false
	}
	if locked {
		seconds := h.lockoutSeconds(ctx, key)
		h.logger.Warn("login lockout",
			slog.String("ip", clientIP(r)),
			slog.Int64("retry_after_seconds", seconds),
		)
		h.metrics.IncLoginLockout()
		writeFieldErrors(w, http.StatusTooManyRequests, map[string]string{
			"email": fmt.Sprintf("Too many login attempts. Please try again in %d seconds.", seconds),
		})
		return
	}

	token, err := h.sessions.Attempt(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if incErr := h.limiter.Increment(ctx, key); incErr != nil {
				h.logger.Error("throttle increment failed", slog.String("error", incErr.Error()))
			}
			h.metrics.IncLoginFailed()
			writeFieldErrors(w, http.StatusUnprocessableEntity, map[string]string{
				"email": msgInvalidCredentials,
			})
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	if err := h.limiter.Clear(ctx, key); err != nil {
		h.logger.Error("throttle clear failed", slog.String("error", err.Error()))
	}

	h.metrics.IncLoginSucceeded()
	writeJSON(w, http.StatusOK, token)
}

// Me handles GET /auth/me.
// The auth middleware has already resolved the caller; the profile
// projection never includes credential material.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, session.User.OwnProfile())
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	if err := h.sessions.Logout(r.Context(), session.Claims); err != nil {
		h.logger.Error("logout failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": msgLoggedOut})
}

// Refresh handles POST /auth/refresh.
// The previous token is revoked once the new one is issued.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	token, err := h.sessions.Refresh(r.Context(), session.Claims)
	if err != nil {
		h.logger.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	h.metrics.IncTokenRefreshed()
	writeJSON(w, http.StatusOK, token)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if fields := validateRegistration(req); len(fields) > 0 {
		writeFieldErrors(w, http.StatusUnprocessableEntity, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			writeFieldErrors(w, http.StatusUnprocessableEntity, map[string]string{
				"username": "The username has already been taken.",
			})
		case errors.Is(err, repository.ErrEmailExists):
			writeFieldErrors(w, http.StatusUnprocessableEntity, map[string]string{
				"email": "The email has already been taken.",
			})
		default:
			h.logger.Error("user creation failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		}
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	h.metrics.IncUserRegistered()

	writeJSON(w, http.StatusCreated, user.OwnProfile())
}

// validateRegistration returns field-keyed validation errors, empty when
// the request is valid.
func validateRegistration(req dto.RegisterRequest) map[string]string {
	fields := make(map[string]string)

	switch {
	case req.Username == "":
		fields["username"] = "The username field is required."
	case !usernamePattern.MatchString(req.Username):
		fields["username"] = "The username may only contain letters, numbers, dashes, dots, and underscores."
	}

	switch {
	case req.Email == "":
		fields["email"] = "The email field is required."
	default:
		if _, err := mail.ParseAddress(req.Email); err != nil {
			fields["email"] = "The email must be a valid email address."
		}
	}

	switch {
	case req.Password == "":
		fields["password"] = "The password field is required."
	case len(req.Password) < 8:
		fields["password"] = "The password must be at least 8 characters."
	}

	return fields
}

// lockoutSeconds reads the remaining lockout window, rounding up so a
// caller never sees "0 seconds" while still locked out.
func (h *AuthHandler) lockoutSeconds(ctx context.Context, key string) int64 {
	available, err := h.limiter.AvailableIn(ctx, key)
	if err != nil {
		h.logger.Error("lockout TTL read failed", slog.String("error", err.Error()))
		return 1
	}
	seconds := int64((available + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// throttleKey buckets failed attempts by login identifier and caller
// network address.
func throttleKey(email, ip string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + ip
}

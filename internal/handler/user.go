package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/repository"
)

// UserFinder resolves usernames for the public profile endpoint.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// UserHandler handles public user profile lookups.
type UserHandler struct {
	users  UserFinder
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserFinder, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// Show handles GET /{username}.
// Anyone can look up a recipient's public profile before sending.
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Error("user lookup failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	writeJSON(w, http.StatusOK, user.PublicProfile())
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/whispr/whispr/internal/auth"
	"github.com/whispr/whispr/internal/handler/dto"
	"github.com/whispr/whispr/internal/metrics"
	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/repository"
)

// MaxMessageLength is the maximum length of a written message in
// characters.
const MaxMessageLength = 1500

// msgBodyRequired is returned when neither a written message nor a
// recording is supplied.
const msgBodyRequired = "You have to write a message or record a message."

// MessageStore is the subset of the repository the message endpoints
// need.
type MessageStore interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessagesByRecipient(ctx context.Context, userID string) ([]*model.Message, error)
}

// MessageHandler handles storing and listing anonymous messages.
type MessageHandler struct {
	store   MessageStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(store MessageStore, logger *slog.Logger, recorder metrics.Recorder) *MessageHandler {
	return &MessageHandler{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// Store handles POST /{username}/send.
// Senders are anonymous; no authentication is required.
func (h *MessageHandler) Store(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := chi.URLParam(r, "username")
	user, err := h.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Error("recipient lookup failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	body, fields := buildBody(req)
	if fields != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, fields)
		return
	}

	msg := &model.Message{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.CreateMessage(ctx, msg); err != nil {
		h.logger.Error("message creation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	kind := "text"
	if _, ok := body.Recording(); ok {
		kind = "record"
	}
	h.logger.Info("message stored",
		slog.String("message_id", msg.ID),
		slog.String("recipient_id", user.ID),
		slog.String("kind", kind),
	)
	h.metrics.IncMessageStored(kind)

	writeJSON(w, http.StatusCreated, dto.ToMessageResponse(msg))
}

// Index handles GET /messages.
// Returns all messages of the authenticated caller in insertion order.
func (h *MessageHandler) Index(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	messages, err := h.store.ListMessagesByRecipient(r.Context(), session.User.ID)
	if err != nil {
		h.logger.Error("message listing failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An internal error occurred"})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMessageListResponse(messages))
}

// buildBody validates the request payload and constructs the message
// body variant. The message field is checked first, so when both fields
// are absent the error is attributed to it.
func buildBody(req dto.SendMessageRequest) (model.Body, map[string]string) {
	if req.Message == "" && req.Record == "" {
		return model.Body{}, map[string]string{"message": msgBodyRequired}
	}

	// Text wins when both are supplied.
	if req.Message != "" {
		if utf8.RuneCountInString(req.Message) > MaxMessageLength {
			return model.Body{}, map[string]string{
				"message": fmt.Sprintf("The message may not be greater than %d characters.", MaxMessageLength),
			}
		}
		return model.TextBody(req.Message), nil
	}

	return model.RecordingBody(req.Record), nil
}

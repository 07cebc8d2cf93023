package dto

import (
	"time"

	"github.com/whispr/whispr/internal/model"
)

// SendMessageRequest is the body of POST /{username}/send.
// At least one of the two fields must be present; message wins when both
// are supplied.
type SendMessageRequest struct {
	Message string `json:"message"`
	Record  string `json:"record"`
}

// MessageResponse is the serialized form of a stored message.
// Exactly one of Message/Record is non-null, mirroring the two nullable
// columns the payload is persisted as.
type MessageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   *string   `json:"message"`
	Record    *string   `json:"record"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMessageResponse converts a domain message to its API representation.
func ToMessageResponse(msg *model.Message) MessageResponse {
	resp := MessageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		CreatedAt: msg.CreatedAt,
	}
	if text, ok := msg.Body.Text(); ok {
		resp.Message = &text
	}
	if ref, ok := msg.Body.Recording(); ok {
		resp.Record = &ref
	}
	return resp
}

// ToMessageListResponse converts a list of messages, preserving order.
// Returns an empty slice (not nil) so an empty list serializes as [].
func ToMessageListResponse(msgs []*model.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ToMessageResponse(msg))
	}
	return out
}

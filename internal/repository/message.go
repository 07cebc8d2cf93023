package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/whispr/whispr/internal/model"
)

// ErrEmptyMessageBody is returned when a message carries neither text nor
// a recording reference. Callers validate before persisting; this guards
// the invariant at the storage boundary as well.
var ErrEmptyMessageBody = errors.New("message body is empty")

// CreateMessage inserts a new message for its recipient.
// Exactly one of the message/record columns is populated, discriminated
// by the body variant.
func (r *Repository) CreateMessage(ctx context.Context, msg *model.Message) error {
	var text, record *string
	if t, ok := msg.Body.Text(); ok {
		text = &t
	} else if rec, ok := msg.Body.Recording(); ok {
		record = &rec
	} else {
		return ErrEmptyMessageBody
	}

	query := `
		INSERT INTO messages (id, user_id, message, record, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		text,
		record,
		msg.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListMessagesByRecipient returns all messages owned by the given user in
// insertion order. Message IDs are ULIDs, so ordering by ID reproduces
// creation order.
func (r *Repository) ListMessagesByRecipient(ctx context.Context, userID string) ([]*model.Message, error) {
	query := `
		SELECT id, user_id, message, record, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var (
			msg    model.Message
			text   *string
			record *string
		)
		if err := rows.Scan(&msg.ID, &msg.UserID, &text, &record, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		switch {
		case text != nil:
			msg.Body = model.TextBody(*text)
		case record != nil:
			msg.Body = model.RecordingBody(*record)
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

//go:build integration

package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/testutil"
)

func TestIntegrationMessageRepository_CreateAndList(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	recipient := testutil.NewTestUser(t, testutil.UniqueUsername("inbox"))
	if err := repo.CreateUser(ctx, recipient); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		msg := &model.Message{
			ID:        ulid.Make().String(),
			UserID:    recipient.ID,
			Body:      model.TextBody(text),
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	messages, err := repo.ListMessagesByRecipient(ctx, recipient.ID)
	if err != nil {
		t.Fatalf("ListMessagesByRecipient failed: %v", err)
	}

	if len(messages) != len(texts) {
		t.Fatalf("Expected %d messages, got %d", len(texts), len(messages))
	}
	for i, msg := range messages {
		text, ok := msg.Body.Text()
		if !ok {
			t.Fatalf("Message %d should be a text message, got %+v", i, msg.Body)
		}
		if text != texts[i] {
			t.Errorf("Message %d out of order: got %q, want %q", i, text, texts[i])
		}
	}
}

func TestIntegrationMessageRepository_RecordMessage(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	recipient := testutil.NewTestUser(t, testutil.UniqueUsername("record"))
	if err := repo.CreateUser(ctx, recipient); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	msg := &model.Message{
		ID:        ulid.Make().String(),
		UserID:    recipient.ID,
		Body:      model.RecordingBody("recordings/abc123.webm"),
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, err := repo.ListMessagesByRecipient(ctx, recipient.ID)
	if err != nil {
		t.Fatalf("ListMessagesByRecipient failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}

	record, ok := messages[0].Body.Recording()
	if !ok {
		t.Fatalf("Expected a recording body, got %+v", messages[0].Body)
	}
	if record != "recordings/abc123.webm" {
		t.Errorf("Record mismatch: got %q", record)
	}
	if _, ok := messages[0].Body.Text(); ok {
		t.Error("Recording message should carry no text")
	}
}

func TestIntegrationMessageRepository_EmptyBodyRejected(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	recipient := testutil.NewTestUser(t, testutil.UniqueUsername("empty"))
	if err := repo.CreateUser(ctx, recipient); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	msg := &model.Message{
		ID:        ulid.Make().String(),
		UserID:    recipient.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateMessage(ctx, msg); !errors.Is(err, ErrEmptyMessageBody) {
		t.Errorf("Expected ErrEmptyMessageBody, got: %v", err)
	}
}

func TestIntegrationMessageRepository_ListIsScopedToRecipient(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	alice := testutil.NewTestUser(t, testutil.UniqueUsername("alice"))
	bob := testutil.NewTestUser(t, testutil.UniqueUsername("bob"))
	for _, user := range []*model.User{alice, bob} {
		if err := repo.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	for i, userID := range []string{alice.ID, bob.ID, alice.ID} {
		msg := &model.Message{
			ID:        ulid.Make().String(),
			UserID:    userID,
			Body:      model.TextBody(fmt.Sprintf("message %d", i)),
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	messages, err := repo.ListMessagesByRecipient(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListMessagesByRecipient failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages for alice, got %d", len(messages))
	}
	for _, msg := range messages {
		if msg.UserID != alice.ID {
			t.Errorf("Message %s belongs to %s, not alice", msg.ID, msg.UserID)
		}
	}
}

func TestIntegrationMessageRepository_EmptyInbox(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	recipient := testutil.NewTestUser(t, testutil.UniqueUsername("silent"))
	if err := repo.CreateUser(ctx, recipient); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	messages, err := repo.ListMessagesByRecipient(ctx, recipient.ID)
	if err != nil {
		t.Fatalf("ListMessagesByRecipient failed: %v", err)
	}
	if messages == nil {
		t.Error("Empty inbox should be an empty slice, not nil")
	}
	if len(messages) != 0 {
		t.Errorf("Expected empty inbox, got %d messages", len(messages))
	}
}

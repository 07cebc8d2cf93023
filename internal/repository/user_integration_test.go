//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/whispr/whispr/internal/testutil"
)

func newRepoTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationUserRepository_CreateUser(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueUsername("create"))

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}

	if retrieved.Username != user.Username {
		t.Errorf("Username mismatch: got %q, want %q", retrieved.Username, user.Username)
	}
	if retrieved.Email != user.Email {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, user.Email)
	}
	if retrieved.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash mismatch: got %q, want %q", retrieved.PasswordHash, user.PasswordHash)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationUserRepository_CreateUser_DuplicateUsername(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	username := testutil.UniqueUsername("dup")
	user1 := testutil.NewTestUser(t, username)
	user2 := testutil.NewTestUser(t, username)

	if err := repo.CreateUser(ctx, user1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, user2)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Expected ErrUsernameExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user1 := testutil.NewTestUser(t, testutil.UniqueUsername("mail1"))
	user2 := testutil.NewTestUser(t, testutil.UniqueUsername("mail2"))
	user2.Email = user1.Email

	if err := repo.CreateUser(ctx, user1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, user2)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetUserByUsername(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueUsername("byname"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
}

func TestIntegrationUserRepository_GetUserByEmail(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueUsername("bymail"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
}

func TestIntegrationUserRepository_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	cases := []struct {
		name string
		get  func() error
	}{
		{"by id", func() error { _, err := repo.GetUserByID(ctx, "nonexistent-id"); return err }},
		{"by username", func() error { _, err := repo.GetUserByUsername(ctx, "nonexistent"); return err }},
		{"by email", func() error { _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); return err }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.get(); !errors.Is(err, ErrUserNotFound) {
				t.Errorf("Expected ErrUserNotFound, got: %v", err)
			}
		})
	}
}

// Command bootstrap-user creates a user account directly in the store.
// Useful for seeding environments where the register endpoint is not
// exposed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/whispr/whispr/internal/auth"
	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/repository"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "", "Public handle for the user")
		email       = flag.String("email", "", "Login email")
		password    = flag.String("password", "", "Login password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *username == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "username, email, and password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	if *format == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(out)
		return
	}

	fmt.Println("user created")
	fmt.Println("  id:      ", out.UserID)
	fmt.Println("  username:", out.Username)
	fmt.Println("  email:   ", out.Email)
}

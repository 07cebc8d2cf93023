package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whispr/whispr/internal/model"
	"github.com/whispr/whispr/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email/password pair does not
	// match any account. Deliberately indistinguishable between unknown
	// email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession indicates the token's session record is gone:
	// the token was revoked by logout/refresh or has expired.
	ErrNoSession = errors.New("token session not found")
)

// UserStore is the subset of the repository the session service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionCache stores revocable token session records keyed by jti.
type SessionCache interface {
	PutTokenSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	GetTokenSession(ctx context.Context, jti string) (string, error)
	DeleteTokenSession(ctx context.Context, jti string) error
}

// Service issues, validates, refreshes, and revokes bearer tokens tied
// to a user identity.
type Service struct {
	users    UserStore
	sessions SessionCache
	issuer   *TokenIssuer
}

// NewService creates a session Service.
func NewService(users UserStore, sessions SessionCache, issuer *TokenIssuer) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		issuer:   issuer,
	}
}

// Attempt authenticates the email/password pair and issues a token on
// success. Returns ErrInvalidCredentials when the pair matches no account.
func (s *Service) Attempt(ctx context.Context, email, password string) (*IssuedToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	match, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user.ID)
}

// UserFromToken resolves a bearer token to its user. The token must
// verify and its jti must still have a live session record.
func (s *Service) UserFromToken(ctx context.Context, token string) (*model.User, *Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	userID, err := s.sessions.GetTokenSession(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}
	if userID == "" || userID != claims.Subject {
		return nil, nil, ErrNoSession
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, claims, nil
}

// Logout revokes the token behind the claims. Subsequent requests with
// the same token fail even though the JWT itself has not expired.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.sessions.DeleteTokenSession(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Refresh issues a new token for the caller and revokes the old one.
func (s *Service) Refresh(ctx context.Context, claims *Claims) (*IssuedToken, error) {
	token, err := s.issue(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.DeleteTokenSession(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("revoke previous session: %w", err)
	}

	return token, nil
}

func (s *Service) issue(ctx context.Context, userID string) (*IssuedToken, error) {
	token, claims, err := s.issuer.Issue(userID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.PutTokenSession(ctx, claims.ID, userID, s.issuer.TTL()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

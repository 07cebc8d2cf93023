package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// TokenTypeBearer is the token_type reported in token responses.
const TokenTypeBearer = "bearer"

var (
	// ErrInvalidToken indicates the token is malformed, has a bad
	// signature, or has expired.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by an access token.
// Subject is the user ID; ID (jti) keys the revocable session record.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is the response shape for a freshly issued access token.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenIssuer signs and parses HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and
// token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a new access token for the user. The returned claims carry
// the jti under which the session record must be stored.
func (i *TokenIssuer) Issue(userID string) (*IssuedToken, *Claims, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(i.ttl.Seconds()),
	}, claims, nil
}

// Parse validates the token signature and expiry and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

package auth

import (
	"testing"
	"time"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, claims, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if token.AccessToken == "" {
		t.Fatal("expected non-empty access token")
	}
	if token.TokenType != TokenTypeBearer {
		t.Errorf("expected token_type %q, got %q", TokenTypeBearer, token.TokenType)
	}
	if token.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", token.ExpiresIn)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}

	parsed, err := issuer.Parse(token.AccessToken)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Subject != "user-1" {
		t.Errorf("expected parsed subject user-1, got %q", parsed.Subject)
	}
	if parsed.ID != claims.ID {
		t.Errorf("jti mismatch: issued %q, parsed %q", claims.ID, parsed.ID)
	}
}

func TestTokenIssuer_DistinctJTIs(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, claims1, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	_, claims2, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if claims1.ID == claims2.ID {
		t.Error("two issued tokens should carry distinct jtis")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, _, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(token.AccessToken); err == nil {
		t.Error("token signed with a different secret should not parse")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, _, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Parse(token.AccessToken); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	if _, err := issuer.Parse("not.a.token"); err == nil {
		t.Error("garbage token should not parse")
	}
}

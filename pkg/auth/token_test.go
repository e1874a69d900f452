package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParseAccess(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccess(42, "ADMIN")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	userID, role, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if userID != 42 || role != "ADMIN" {
		t.Fatalf("got userID=%d role=%q", userID, role)
	}
}

func TestIssuedTokensAreUnique(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)

	// same user, same second: the jti must still make them distinct,
	// otherwise refresh rotation cannot retire a consumed token
	first, err := issuer.IssueRefresh(7, "USER")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	second, err := issuer.IssueRefresh(7, "USER")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if first == second {
		t.Fatal("consecutive refresh tokens are identical")
	}
}

func TestParseExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccess(7, "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, _, err := issuer.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)
	other := NewTokenIssuer("other-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccess(7, "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, _, err := other.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseMissingSubject(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)

	claims := Claims{
		Role: "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := issuer.Parse(token); !errors.Is(err, ErrSubjectMissing) {
		t.Fatalf("expected ErrSubjectMissing, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour)
	if _, _, err := issuer.Parse("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

package app

import (
	"net/http"
	"testing"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
)

func TestLoginSuccess(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "reader@example.com")

	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("token_type = %q", pair.TokenType)
	}
	if pair.Role != domain.RoleUser {
		t.Fatalf("role = %q", pair.Role)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "reader@example.com")
	if _, err := a.Login("  Reader@Example.COM ", "password123"); err != nil {
		t.Fatalf("Login with unnormalized email: %v", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "reader@example.com")

	_, err := a.Login("reader@example.com", "wrong")
	wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)

	_, err = a.Login("nobody@example.com", "password123")
	wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	if _, err := a.SetUserStatus(user.ID, "INACTIVE"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	_, err := a.Login("reader@example.com", "password123")
	wantAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)
}

func TestRefreshRotates(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "reader@example.com")
	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := a.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == "" {
		t.Fatal("expected rotated refresh token")
	}

	// the old token no longer matches the cache
	_, err = a.Refresh(pair.RefreshToken)
	wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeTokenExpired)

	if _, err := a.Refresh(next.RefreshToken); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Refresh("not-a-token")
	apiErr := wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeTokenExpired)
	if apiErr.Message != "Refresh Token expired or invalid" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestRefreshAfterLogout(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if msg := a.Logout(user.ID); msg != "Logged out successfully" {
		t.Fatalf("first logout message = %q", msg)
	}
	if msg := a.Logout(user.ID); msg != "Already logged out or token not found" {
		t.Fatalf("second logout message = %q", msg)
	}

	_, err = a.Refresh(pair.RefreshToken)
	wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeTokenExpired)
}

func TestAuthenticate(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	authUser, err := a.Authenticate(pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authUser.ID != user.ID || authUser.Role != domain.RoleUser {
		t.Fatalf("unexpected auth user: %+v", authUser)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Authenticate("garbage")
	apiErr := wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
	if apiErr.Message != "Token invalid" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := a.DeleteAccount(user.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	_, err = a.Authenticate(pair.AccessToken)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	pair, err := a.Login("reader@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := a.SetUserStatus(user.ID, "inactive"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	_, err = a.Authenticate(pair.AccessToken)
	wantAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)
}

func TestRequireAdmin(t *testing.T) {
	a := newTestApp(t)
	if err := a.RequireAdmin(domain.AuthUser{ID: 1, Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	err := a.RequireAdmin(domain.AuthUser{ID: 2, Role: domain.RoleUser})
	wantAPIError(t, err, http.StatusForbidden, apierr.CodeForbidden)
}

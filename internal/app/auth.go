package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"bookstore/pkg/apierr"
	"bookstore/pkg/auth"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

// Login verifies credentials and issues a fresh token pair. The new
// refresh token overwrites any previous one for the user.
func (a *App) Login(email, password string) (domain.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := a.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Invalid email or password")
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return domain.TokenPair{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Invalid email or password")
	}
	if user.Status != domain.StatusActive {
		return domain.TokenPair{}, apierr.New(http.StatusForbidden, apierr.CodeForbidden, "User inactive")
	}
	return a.issuePair(user)
}

func (a *App) issuePair(user domain.User) (domain.TokenPair, error) {
	access, err := a.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := a.tokens.IssueRefresh(user.ID, string(user.Role))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := a.refreshTokens.Save(user.ID, refresh, a.tokens.RefreshTTL()); err != nil {
		return domain.TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		Role:         user.Role,
	}, nil
}

// Refresh rotates the token pair. The presented token must match the
// cached one exactly; a mismatch or cache miss rejects the request.
func (a *App) Refresh(token string) (domain.TokenPair, error) {
	userID, _, err := a.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrSubjectMissing) {
			return domain.TokenPair{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Invalid token payload")
		}
		return domain.TokenPair{}, apierr.New(http.StatusUnauthorized, apierr.CodeTokenExpired, "Refresh Token expired or invalid")
	}
	stored, ok, err := a.refreshTokens.Get(userID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("read refresh token: %w", err)
	}
	if !ok || stored != token {
		return domain.TokenPair{}, apierr.New(http.StatusUnauthorized, apierr.CodeTokenExpired, "Refresh Token expired or invalid")
	}
	user, err := a.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	return a.issuePair(user)
}

// Logout drops the cached refresh token. It never fails; the message
// tells the caller whether anything was actually removed.
func (a *App) Logout(userID int64) string {
	deleted, err := a.refreshTokens.Delete(userID)
	if err != nil {
		slog.Warn("logout cache delete failed", "user_id", userID, "err", err)
		return "Already logged out or token not found"
	}
	if deleted {
		return "Logged out successfully"
	}
	return "Already logged out or token not found"
}

// Authenticate resolves a bearer token to an active user.
func (a *App) Authenticate(token string) (domain.AuthUser, error) {
	userID, _, err := a.tokens.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return domain.AuthUser{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrSubjectMissing):
			return domain.AuthUser{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Invalid token payload")
		default:
			return domain.AuthUser{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Token invalid")
		}
	}
	user, err := a.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthUser{}, apierr.NotFound("User not found")
		}
		return domain.AuthUser{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.Status != domain.StatusActive {
		return domain.AuthUser{}, apierr.New(http.StatusForbidden, apierr.CodeForbidden, "User inactive")
	}
	return domain.AuthUser{ID: user.ID, Role: user.Role}, nil
}

// RequireAdmin gates admin-only operations.
func (a *App) RequireAdmin(user domain.AuthUser) error {
	if user.Role != domain.RoleAdmin {
		return apierr.New(http.StatusForbidden, apierr.CodeForbidden, "Admin privileges required")
	}
	return nil
}

package app

import (
	"testing"
	"time"

	"bookstore/pkg/apierr"
	"bookstore/pkg/auth"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{
		Store:         store.NewMemoryStore(),
		RefreshTokens: store.NewMemoryRefreshTokenStore(),
		Tokens:        auth.NewTokenIssuer("test-secret", 30*time.Minute, 7*24*time.Hour),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func registerUser(t *testing.T, a *App, email string) domain.User {
	t.Helper()
	user, err := a.Register(RegisterInput{Email: email, Password: "password123", Name: "Tester"})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return user
}

func createBook(t *testing.T, a *App, isbn, title string) domain.Book {
	t.Helper()
	book, err := a.CreateBook(CreateBookInput{ISBN: isbn, Title: title, Price: 15000})
	if err != nil {
		t.Fatalf("CreateBook(%s): %v", isbn, err)
	}
	return book
}

func wantAPIError(t *testing.T, err error, status int, code apierr.Code) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %d %s, got nil", status, code)
	}
	apiErr, ok := err.(*apierr.Error)
	if !ok {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	if apiErr.Status != status || apiErr.Code != code {
		t.Fatalf("got %d %s (%q), want %d %s", apiErr.Status, apiErr.Code, apiErr.Message, status, code)
	}
	return apiErr
}

func TestNewRequiresWiring(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without database URL")
	}
	if _, err := New(Config{Store: store.NewMemoryStore()}); err == nil {
		t.Fatal("expected error without redis addr")
	}
	if _, err := New(Config{
		Store:         store.NewMemoryStore(),
		RefreshTokens: store.NewMemoryRefreshTokenStore(),
	}); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}

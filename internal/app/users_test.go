package app

import (
	"net/http"
	"testing"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
)

func TestRegisterDefaults(t *testing.T) {
	a := newTestApp(t)
	user, err := a.Register(RegisterInput{
		Email:    " Reader@Example.com ",
		Password: "password123",
		Name:     " Kim ",
		Phone:    "010-1234-5678",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "reader@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.Name != "Kim" {
		t.Fatalf("name = %q", user.Name)
	}
	if user.Role != domain.RoleUser || user.Status != domain.StatusActive {
		t.Fatalf("defaults: role=%q status=%q", user.Role, user.Status)
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Register(RegisterInput{Email: "not-an-email", Password: "short", Name: ""})
	apiErr := wantAPIError(t, err, http.StatusUnprocessableEntity, apierr.CodeValidationFailed)
	fields, ok := apiErr.Details.([]apierr.FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected three field errors, got %+v", apiErr.Details)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "reader@example.com")
	_, err := a.Register(RegisterInput{Email: "reader@example.com", Password: "password123", Name: "Other"})
	wantAPIError(t, err, http.StatusConflict, apierr.CodeDuplicateResource)
}

func TestUpdateProfilePartial(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")

	name := "New Name"
	updated, err := a.UpdateProfile(user.ID, UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.Email != user.Email {
		t.Fatal("untouched fields must survive")
	}

	blank := "   "
	_, err = a.UpdateProfile(user.ID, UpdateProfileInput{Name: &blank})
	wantAPIError(t, err, http.StatusUnprocessableEntity, apierr.CodeValidationFailed)
}

func TestUpdateProfilePassword(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")

	newPass := "fresh-password"
	if _, err := a.UpdateProfile(user.ID, UpdateProfileInput{Password: &newPass}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if _, err := a.Login("reader@example.com", "fresh-password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	_, err := a.Login("reader@example.com", "password123")
	wantAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestGetUserMissing(t *testing.T) {
	a := newTestApp(t)
	_, err := a.GetUser(404)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeUserNotFound)
}

func TestDeleteAccount(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A Book")
	if _, err := a.CreateComment(user.ID, book.ID, "mine"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := a.DeleteAccount(user.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	err := a.DeleteAccount(user.ID)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeUserNotFound)

	comments, err := a.CommentsByBook(book.ID)
	if err != nil {
		t.Fatalf("CommentsByBook: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected comments removed with account, got %d", len(comments))
	}
}

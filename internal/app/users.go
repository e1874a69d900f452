package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookstore/pkg/apierr"
	"bookstore/pkg/auth"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func validateRegister(in RegisterInput) []apierr.FieldError {
	var fields []apierr.FieldError
	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields = append(fields, apierr.FieldError{Field: "email", Msg: "must not be blank"})
	} else if !strings.Contains(email, "@") {
		fields = append(fields, apierr.FieldError{Field: "email", Msg: "must be a valid email address"})
	}
	if len(in.Password) < 8 {
		fields = append(fields, apierr.FieldError{Field: "password", Msg: "must be at least 8 characters"})
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, apierr.FieldError{Field: "name", Msg: "must not be blank"})
	}
	return fields
}

// Register creates an account with role USER and status ACTIVE. The
// duplicate-email conflict comes from the unique constraint, so a
// race-losing insert reports the same 409 as the straight path.
func (a *App) Register(in RegisterInput) (domain.User, error) {
	if fields := validateRegister(in); len(fields) > 0 {
		return domain.User{}, apierr.Validation(fields...)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	if err := a.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.User{}, apierr.New(http.StatusConflict, apierr.CodeDuplicateResource, "Email already registered")
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUser loads one user, mapping absence to USER_NOT_FOUND.
func (a *App) GetUser(id int64) (domain.User, error) {
	user, err := a.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

// UpdateProfile applies only the provided fields.
func (a *App) UpdateProfile(id int64, in UpdateProfileInput) (domain.User, error) {
	user, err := a.GetUser(id)
	if err != nil {
		return domain.User{}, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.User{}, apierr.Validation(apierr.FieldError{Field: "name", Msg: "must not be blank"})
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		user.Address = strings.TrimSpace(*in.Address)
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return domain.User{}, apierr.Validation(apierr.FieldError{Field: "password", Msg: "must be at least 8 characters"})
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := a.store.UpdateUser(&user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user and their comments and ratings.
func (a *App) DeleteAccount(id int64) error {
	if err := a.store.DeleteUser(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	// the refresh token would outlive the account otherwise
	_, err := a.refreshTokens.Delete(id)
	if err != nil {
		return fmt.Errorf("drop refresh token: %w", err)
	}
	return nil
}

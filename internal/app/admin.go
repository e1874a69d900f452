package app

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

// ListUsers runs a filtered, paged user query for the admin surface.
func (a *App) ListUsers(q store.UserQuery) ([]domain.User, int64, error) {
	users, total, err := a.store.ListUsers(q)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// SetUserStatus switches a user between ACTIVE and INACTIVE.
func (a *App) SetUserStatus(id int64, raw string) (domain.User, error) {
	status, ok := domain.ParseUserStatus(raw)
	if !ok {
		return domain.User{}, apierr.New(http.StatusBadRequest, apierr.CodeBadRequest,
			"Invalid status value", map[string]string{"input": raw})
	}
	user, err := a.GetUser(id)
	if err != nil {
		return domain.User{}, err
	}
	user.Status = status
	if err := a.store.UpdateUser(&user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return domain.User{}, fmt.Errorf("update user status: %w", err)
	}
	return user, nil
}

// SetUserRole switches a user between USER and ADMIN.
func (a *App) SetUserRole(id int64, raw string) (domain.User, error) {
	role, ok := domain.ParseUserRole(raw)
	if !ok {
		return domain.User{}, apierr.New(http.StatusBadRequest, apierr.CodeBadRequest,
			"Invalid role value", map[string]string{"input": raw})
	}
	user, err := a.GetUser(id)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = role
	if err := a.store.UpdateUser(&user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apierr.New(http.StatusNotFound, apierr.CodeUserNotFound, "User not found")
		}
		return domain.User{}, fmt.Errorf("update user role: %w", err)
	}
	return user, nil
}

// UserComments lists one user's comments. No user-existence check: an
// unknown id simply yields an empty page.
func (a *App) UserComments(userID int64, q store.CommentQuery) ([]domain.Comment, int64, error) {
	q.UserID = userID
	return a.ListComments(q)
}

// UserRatings lists one user's ratings. Unlike UserComments this
// checks the user exists first.
func (a *App) UserRatings(userID int64, q store.RatingQuery) ([]domain.Rating, int64, error) {
	if _, err := a.GetUser(userID); err != nil {
		return nil, 0, err
	}
	q.UserID = userID
	return a.ListRatings(q)
}

// DashboardStats gathers the four entity counts sequentially. A fully
// empty system reports RESOURCE_NOT_FOUND.
func (a *App) DashboardStats() (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var err error
	if stats.Users, err = a.store.CountUsers(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count users: %w", err)
	}
	if stats.Books, err = a.store.CountBooks(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count books: %w", err)
	}
	if stats.Comments, err = a.store.CountComments(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count comments: %w", err)
	}
	if stats.Ratings, err = a.store.CountRatings(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count ratings: %w", err)
	}
	if stats.Users == 0 && stats.Books == 0 && stats.Comments == 0 && stats.Ratings == 0 {
		return domain.DashboardStats{}, apierr.NotFound("No data found")
	}
	return stats, nil
}

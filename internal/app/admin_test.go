package app

import (
	"net/http"
	"testing"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

func TestSetUserStatus(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")

	updated, err := a.SetUserStatus(user.ID, "inactive")
	if err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if updated.Status != domain.StatusInactive {
		t.Fatalf("status = %q", updated.Status)
	}

	_, err = a.SetUserStatus(user.ID, "SUSPENDED")
	apiErr := wantAPIError(t, err, http.StatusBadRequest, apierr.CodeBadRequest)
	details, ok := apiErr.Details.(map[string]string)
	if !ok || details["input"] != "SUSPENDED" {
		t.Fatalf("details = %+v", apiErr.Details)
	}

	_, err = a.SetUserStatus(999, "ACTIVE")
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeUserNotFound)
}

func TestSetUserRole(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")

	updated, err := a.SetUserRole(user.ID, "admin")
	if err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("role = %q", updated.Role)
	}

	_, err = a.SetUserRole(user.ID, "OWNER")
	wantAPIError(t, err, http.StatusBadRequest, apierr.CodeBadRequest)
}

func TestListUsersFilter(t *testing.T) {
	a := newTestApp(t)
	registerUser(t, a, "alice@example.com")
	bob := registerUser(t, a, "bob@example.com")
	if _, err := a.SetUserRole(bob.ID, "ADMIN"); err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}

	_, total, err := a.ListUsers(store.UserQuery{Role: "ADMIN", SortField: "id", Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d", total)
	}

	users, total, err := a.ListUsers(store.UserQuery{Keyword: "alice", SortField: "id", Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 1 || users[0].Email != "alice@example.com" {
		t.Fatalf("unexpected keyword result: total=%d", total)
	}
}

func TestUserCommentsNoExistenceCheck(t *testing.T) {
	a := newTestApp(t)
	comments, total, err := a.UserComments(12345, store.CommentQuery{SortField: "id", Limit: 10})
	if err != nil {
		t.Fatalf("UserComments: %v", err)
	}
	if total != 0 || len(comments) != 0 {
		t.Fatal("unknown user should yield an empty page, not an error")
	}
}

func TestUserRatingsChecksExistence(t *testing.T) {
	a := newTestApp(t)
	_, _, err := a.UserRatings(12345, store.RatingQuery{SortField: "id", Limit: 10})
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeUserNotFound)

	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A")
	if _, err := a.CreateRating(user.ID, book.ID, 4); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}
	ratings, total, err := a.UserRatings(user.ID, store.RatingQuery{SortField: "id", Limit: 10})
	if err != nil {
		t.Fatalf("UserRatings: %v", err)
	}
	if total != 1 || ratings[0].BookID != book.ID {
		t.Fatalf("unexpected ratings: total=%d", total)
	}
}

func TestDashboardStats(t *testing.T) {
	a := newTestApp(t)

	_, err := a.DashboardStats()
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)

	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A")
	if _, err := a.CreateComment(user.ID, book.ID, "nice"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if _, err := a.CreateRating(user.ID, book.ID, 5); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}

	stats, err := a.DashboardStats()
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	want := domain.DashboardStats{Books: 1, Users: 1, Comments: 1, Ratings: 1}
	if stats != want {
		t.Fatalf("stats = %+v", stats)
	}
}

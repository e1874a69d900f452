package server

import (
	"net/http"
	"strings"

	"bookstore/internal/app"
	"bookstore/internal/pagination"
	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

// adminUsersPageSize is the wider default page on the admin user list.
const adminUsersPageSize = 20

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ domain.AuthUser) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	page, size, fields := parseListValidation(r, adminUsersPageSize)
	if len(fields) > 0 {
		s.fail(w, r, apierr.Validation(fields...))
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultSort
	}
	// only the field is validated; any direction other than DESC
	// sorts ascending, same as the book listings
	field, direction := pagination.ParseSort(sort)
	if !pagination.UserFields.Has(field) {
		s.fail(w, r, apierr.InvalidQuery("Invalid sort format, e.g. id,ASC",
			map[string]string{"sort": sort}))
		return
	}

	users, total, err := s.app.ListUsers(store.UserQuery{
		Role:      r.URL.Query().Get("role"),
		Keyword:   r.URL.Query().Get("keyword"),
		SortField: field,
		SortDesc:  pagination.IsDesc(direction),
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := pagination.ItemsEnvelope(users, page, size, total)
	body["sort"] = sort
	writeJSON(w, http.StatusOK, body)
}

// handleAdminUserByID serves /admin/users/{id} and its status, role,
// comments and ratings subresources.
func (s *Server) handleAdminUserByID(w http.ResponseWriter, r *http.Request, _ domain.AuthUser) {
	suffix := pathSuffix(r, "/admin/users/")
	idPart, action, _ := strings.Cut(suffix, "/")
	userID, ok := parseID(idPart)
	if !ok {
		s.fail(w, r, apierr.Validation(apierr.FieldError{Field: "user_id", Msg: "must be integer"}))
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		user, err := s.app.GetUser(userID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case "status":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r)
			return
		}
		user, err := s.app.SetUserStatus(userID, r.URL.Query().Get("status"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "User status updated",
			"user_id": user.ID,
			"status":  user.Status,
		})
	case "role":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r)
			return
		}
		user, err := s.app.SetUserRole(userID, r.URL.Query().Get("role"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "User role updated",
			"user_id": user.ID,
			"role":    user.Role,
		})
	case "comments":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		page, size, fields := parseListValidation(r, defaultPageSize)
		if len(fields) > 0 {
			s.fail(w, r, apierr.Validation(fields...))
			return
		}
		comments, total, err := s.app.UserComments(userID, store.CommentQuery{
			SortField: "id",
			Offset:    pagination.Offset(page, size),
			Limit:     size,
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagination.Envelope(comments, page, size, total, defaultSort))
	case "ratings":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r)
			return
		}
		page, size, fields := parseListValidation(r, defaultPageSize)
		if len(fields) > 0 {
			s.fail(w, r, apierr.Validation(fields...))
			return
		}
		ratings, total, err := s.app.UserRatings(userID, store.RatingQuery{
			SortField: "id",
			Offset:    pagination.Offset(page, size),
			Limit:     size,
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagination.ItemsEnvelope(ratings, page, size, total))
	default:
		s.fail(w, r, apierr.NotFound("Resource not found"))
	}
}

func (s *Server) handleAdminCreateBook(w http.ResponseWriter, r *http.Request, _ domain.AuthUser) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req app.CreateBookInput
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	book, err := s.app.CreateBook(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleAdminBookByID(w http.ResponseWriter, r *http.Request, _ domain.AuthUser) {
	id, ok := parseID(pathSuffix(r, "/admin/books/"))
	if !ok {
		s.fail(w, r, apierr.Unprocessable(map[string]string{"book_id": "must be integer"}))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req app.UpdateBookInput
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			s.fail(w, r, apiErr)
			return
		}
		book, err := s.app.UpdateBook(id, req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodDelete:
		if err := s.app.DeleteBook(id); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request, _ domain.AuthUser) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	stats, err := s.app.DashboardStats()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

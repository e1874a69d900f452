package server

import (
	"net/http"
	"strings"

	"bookstore/internal/pagination"
	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

type createCommentRequest struct {
	BookID  int64  `json:"book_id"`
	Content string `json:"content"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, user domain.AuthUser) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req createCommentRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	comment, err := s.app.CreateComment(user.ID, req.BookID, req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// parseListValidation parses page/size with the strict listing error
// shape shared by the rating, comment and admin listings.
func parseListValidation(r *http.Request, defSize int) (page, size int, fields []apierr.FieldError) {
	page, ok := parseIntQuery(r, "page", 1)
	if !ok {
		fields = append(fields, apierr.FieldError{Field: "page", Msg: "must be integer"})
	} else if page < 1 {
		fields = append(fields, apierr.FieldError{Field: "page", Msg: "must be >= 1"})
	}
	size, ok = parseIntQuery(r, "size", defSize)
	if !ok {
		fields = append(fields, apierr.FieldError{Field: "size", Msg: "must be integer"})
	} else if size < 1 {
		fields = append(fields, apierr.FieldError{Field: "size", Msg: "must be >= 1"})
	}
	return page, size, fields
}

// handleBookComments serves /comments/book/{id} (paginated) and
// /comments/book/{id}/all (everything, oldest first).
func (s *Server) handleBookComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	suffix := pathSuffix(r, "/comments/book/")
	all := false
	if rest, found := strings.CutSuffix(suffix, "/all"); found {
		all = true
		suffix = rest
	}
	bookID, ok := parseID(suffix)
	if !ok {
		s.fail(w, r, apierr.Validation(apierr.FieldError{Field: "book_id", Msg: "must be integer"}))
		return
	}

	if all {
		comments, err := s.app.CommentsByBook(bookID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
		return
	}

	page, size, fields := parseListValidation(r, defaultPageSize)
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultListingSort
	}
	field, desc, sortOK := pagination.ParseStrictSort(sort, pagination.CommentFields)
	if !sortOK {
		fields = append(fields, apierr.FieldError{Field: "sort", Msg: "must be <field>,ASC|DESC"})
	}
	if len(fields) > 0 {
		s.fail(w, r, apierr.Validation(fields...))
		return
	}

	keyword := r.URL.Query().Get("keyword")
	comments, total, err := s.app.ListComments(store.CommentQuery{
		BookID:    bookID,
		Keyword:   keyword,
		SortField: field,
		SortDesc:  desc,
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := pagination.Envelope(comments, page, size, total, sort)
	body["keyword"] = keyword
	writeJSON(w, http.StatusOK, body)
}

type updateCommentRequest struct {
	Content *string `json:"content"`
}

func (s *Server) handleCommentByID(w http.ResponseWriter, r *http.Request, user domain.AuthUser) {
	id, ok := parseID(pathSuffix(r, "/comments/"))
	if !ok {
		s.fail(w, r, apierr.Validation(apierr.FieldError{Field: "comment_id", Msg: "must be integer"}))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req updateCommentRequest
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			s.fail(w, r, apiErr)
			return
		}
		comment, err := s.app.UpdateComment(user.ID, id, req.Content)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comment)
	case http.MethodDelete:
		if err := s.app.DeleteComment(user, id); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
	default:
		methodNotAllowed(w, r)
	}
}

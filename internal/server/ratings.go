package server

import (
	"net/http"
	"strconv"

	"bookstore/internal/pagination"
	"bookstore/pkg/apierr"
	"bookstore/pkg/store"
)

func (s *Server) handleRatingSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	bookID, ok := parseID(pathSuffix(r, "/ratings/summary/"))
	if !ok {
		s.fail(w, r, apierr.Validation(apierr.FieldError{Field: "book_id", Msg: "must be integer"}))
		return
	}
	summary, err := s.app.RatingSummary(bookID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleRatings serves /ratings/{book_id}: public listing on GET,
// authenticated create/update/delete of the caller's rating otherwise.
func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseID(pathSuffix(r, "/ratings/"))
	if !ok {
		s.fail(w, r, apierr.Validation(apierr.FieldError{Field: "book_id", Msg: "must be integer"}))
		return
	}
	if r.Method == http.MethodGet {
		s.listRatings(w, r, bookID)
		return
	}

	user, err := s.authorize(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Score int `json:"score"`
		}
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			s.fail(w, r, apiErr)
			return
		}
		rating, err := s.app.CreateRating(user.ID, bookID, req.Score)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, rating)
	case http.MethodPatch:
		var req struct {
			Score int `json:"score"`
		}
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			s.fail(w, r, apiErr)
			return
		}
		rating, err := s.app.UpdateRating(user.ID, bookID, req.Score)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rating)
	case http.MethodDelete:
		if err := s.app.DeleteRating(user.ID, bookID); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Rating deleted"})
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) listRatings(w http.ResponseWriter, r *http.Request, bookID int64) {
	page, size, fields := parseListValidation(r, defaultPageSize)

	// keyword is the exact-score filter on this endpoint
	keyword := r.URL.Query().Get("keyword")
	var score *int
	if keyword != "" {
		n, err := strconv.Atoi(keyword)
		if err != nil {
			fields = append(fields, apierr.FieldError{Field: "keyword", Msg: "must be integer"})
		} else {
			score = &n
		}
	}
	scoreFilter := func(name string) *int {
		n, ok := parseIntQuery(r, name, -1)
		if !ok {
			fields = append(fields, apierr.FieldError{Field: name, Msg: "must be integer"})
			return nil
		}
		if r.URL.Query().Get(name) == "" {
			return nil
		}
		return &n
	}
	minScore := scoreFilter("minScore")
	maxScore := scoreFilter("maxScore")

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultListingSort
	}
	field, desc, sortOK := pagination.ParseStrictSort(sort, pagination.RatingFields)
	if !sortOK {
		fields = append(fields, apierr.FieldError{Field: "sort", Msg: "must be <field>,ASC|DESC"})
	}
	if len(fields) > 0 {
		s.fail(w, r, apierr.Validation(fields...))
		return
	}

	ratings, total, err := s.app.ListRatings(store.RatingQuery{
		BookID:    bookID,
		Score:     score,
		MinScore:  minScore,
		MaxScore:  maxScore,
		SortField: field,
		SortDesc:  desc,
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := pagination.Envelope(ratings, page, size, total, sort)
	var keywordEcho *string
	if keyword != "" {
		keywordEcho = &keyword
	}
	body["keyword"] = keywordEcho
	body["minScore"] = minScore
	body["maxScore"] = maxScore
	writeJSON(w, http.StatusOK, body)
}

package server

import (
	"net/http"
	"strconv"

	"bookstore/internal/pagination"
	"bookstore/pkg/apierr"
	"bookstore/pkg/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	defaultSort     = "id,ASC"

	// rating and comment listings show newest entries first
	defaultListingSort = "id,DESC"
)

// parseBookPaging parses page/size/sort with the book-endpoint error
// shape: non-integers are 422, range and sort defects are 400.
func (s *Server) parseBookPaging(r *http.Request) (page, size int, field string, desc bool, sort string, apiErr *apierr.Error) {
	page, ok := parseIntQuery(r, "page", 1)
	if !ok {
		return 0, 0, "", false, "", apierr.Unprocessable(map[string]string{"page": "must be integer"})
	}
	size, ok = parseIntQuery(r, "size", defaultPageSize)
	if !ok {
		return 0, 0, "", false, "", apierr.Unprocessable(map[string]string{"size": "must be integer"})
	}
	if page < 1 || size < 1 || size > maxPageSize {
		return 0, 0, "", false, "", apierr.InvalidQuery("Invalid pagination value",
			map[string]int{"page": page, "size": size})
	}
	sort = r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultSort
	}
	var direction string
	field, direction = pagination.ParseSort(sort)
	if !pagination.BookFields.Has(field) {
		return 0, 0, "", false, "", apierr.InvalidQuery("Invalid sort field",
			map[string]string{"sort": sort})
	}
	return page, size, field, pagination.IsDesc(direction), sort, nil
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	page, size, field, desc, sort, apiErr := s.parseBookPaging(r)
	if apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	books, total, err := s.app.ListBooks(store.BookQuery{
		SortField: field,
		SortDesc:  desc,
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.Envelope(books, page, size, total, sort))
}

func (s *Server) handleBookSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	page, size, field, desc, sort, apiErr := s.parseBookPaging(r)
	if apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	keyword := r.URL.Query().Get("keyword")
	category := r.URL.Query().Get("category")
	books, total, err := s.app.ListBooks(store.BookQuery{
		Keyword:   keyword,
		Category:  category,
		SortField: field,
		SortDesc:  desc,
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := pagination.Envelope(books, page, size, total, sort)
	body["keyword"] = keyword
	body["category"] = category
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleBookPriceFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	q := r.URL.Query()

	// every numeric param is parsed by hand so all defects report at once
	invalid := map[string]string{}
	parse := func(name string, def int) int {
		raw := q.Get(name)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			invalid[name] = "must be integer"
			return def
		}
		return n
	}
	page := parse("page", 1)
	size := parse("size", defaultPageSize)

	var minPrice, maxPrice *int64
	if raw := q.Get("min_price"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalid["min_price"] = "must be integer"
		} else {
			minPrice = &n
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalid["max_price"] = "must be integer"
		} else {
			maxPrice = &n
		}
	}
	if len(invalid) > 0 {
		s.fail(w, r, apierr.Unprocessable(invalid))
		return
	}
	if page < 1 || size < 1 || size > maxPageSize {
		s.fail(w, r, apierr.InvalidQuery("Invalid pagination value",
			map[string]int{"page": page, "size": size}))
		return
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		s.fail(w, r, apierr.InvalidQuery("min_price must be <= max_price",
			map[string]int64{"min_price": *minPrice, "max_price": *maxPrice}))
		return
	}

	books, total, err := s.app.ListBooks(store.BookQuery{
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortField: "id",
		Offset:    pagination.Offset(page, size),
		Limit:     size,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := pagination.Envelope(books, page, size, total, defaultSort)
	body["min_price"] = minPrice
	body["max_price"] = maxPrice
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLatestBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	books, err := s.app.LatestBooks()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// parseLimit handles the shared limit param of the popular/random
// endpoints.
func parseLimit(r *http.Request) (int, *apierr.Error) {
	limit, ok := parseIntQuery(r, "limit", 10)
	if !ok {
		return 0, apierr.Unprocessable(map[string]string{"limit": "must be integer"})
	}
	if limit < 1 {
		return 0, apierr.InvalidQuery("limit must be >= 1", map[string]int{"limit": limit})
	}
	return limit, nil
}

func (s *Server) handlePopularByRatings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	limit, apiErr := parseLimit(r)
	if apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	rows, err := s.app.TopRatedBooks(limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePopularByComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	limit, apiErr := parseLimit(r)
	if apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	rows, err := s.app.TopCommentedBooks(limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRandomBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	limit, apiErr := parseLimit(r)
	if apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	books, err := s.app.RandomBooks(limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	id, ok := parseID(pathSuffix(r, "/books/"))
	if !ok {
		s.fail(w, r, apierr.Unprocessable(map[string]string{"book_id": "must be integer"}))
		return
	}
	book, err := s.app.GetBook(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

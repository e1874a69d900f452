package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore/pkg/domain"
)

// MemoryStore is the in-memory Store used by tests. It mirrors the
// GormStore's semantics, including the duplicate-key sentinels.
type MemoryStore struct {
	mu sync.Mutex

	users    map[int64]domain.User
	books    map[int64]domain.Book
	comments map[int64]domain.Comment
	ratings  map[int64]domain.Rating

	nextUserID    int64
	nextBookID    int64
	nextCommentID int64
	nextRatingID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]domain.User),
		books:    make(map[int64]domain.Book),
		comments: make(map[int64]domain.Comment),
		ratings:  make(map[int64]domain.Rating),
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (s *MemoryStore) CreateUser(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	s.nextUserID++
	u.ID = s.nextUserID
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUser(id int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUser(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for cid, c := range s.comments {
		if c.UserID == id {
			delete(s.comments, cid)
		}
	}
	for rid, r := range s.ratings {
		if r.UserID == id {
			delete(s.ratings, rid)
		}
	}
	return nil
}

func (s *MemoryStore) ListUsers(q UserQuery) ([]domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.User
	for _, u := range s.users {
		if q.Role != "" && string(u.Role) != q.Role {
			continue
		}
		if q.Keyword != "" && !containsFold(u.Email, q.Keyword) && !containsFold(u.Name, q.Keyword) {
			continue
		}
		matched = append(matched, u)
	}
	sortUsers(matched, q.SortField, q.SortDesc)
	total := int64(len(matched))
	return pageSlice(matched, q.Offset, q.Limit), total, nil
}

func sortUsers(users []domain.User, field string, desc bool) {
	less := func(a, b domain.User) bool {
		switch field {
		case "email":
			return a.Email < b.Email
		case "name":
			return a.Name < b.Name
		case "phone":
			return a.Phone < b.Phone
		case "address":
			return a.Address < b.Address
		case "role":
			return a.Role < b.Role
		case "status":
			return a.Status < b.Status
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if desc {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}

func pageSlice[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func (s *MemoryStore) CreateBook(b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.books {
		if existing.ISBN == b.ISBN {
			return ErrDuplicateISBN
		}
	}
	s.nextBookID++
	b.ID = s.nextBookID
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.books[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetBook(id int64) (domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return domain.Book{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) GetBookByISBN(isbn string) (domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return domain.Book{}, ErrNotFound
}

func (s *MemoryStore) UpdateBook(b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.books[b.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range s.books {
		if id != b.ID && other.ISBN == b.ISBN {
			return ErrDuplicateISBN
		}
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	s.books[b.ID] = *b
	return nil
}

func (s *MemoryStore) DeleteBook(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return ErrNotFound
	}
	delete(s.books, id)
	for cid, c := range s.comments {
		if c.BookID == id {
			delete(s.comments, cid)
		}
	}
	for rid, r := range s.ratings {
		if r.BookID == id {
			delete(s.ratings, rid)
		}
	}
	return nil
}

func bookMatches(b domain.Book, q BookQuery) bool {
	if q.Keyword != "" {
		kw := q.Keyword
		if !containsFold(b.Title, kw) && !containsFold(b.Summary, kw) &&
			!containsFold(strings.Join(b.Authors, ","), kw) &&
			!containsFold(strings.Join(b.Categories, ","), kw) &&
			!containsFold(b.ISBN, kw) {
			return false
		}
	}
	if q.Category != "" && !containsFold(strings.Join(b.Categories, ","), q.Category) {
		return false
	}
	if q.MinPrice != nil && b.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && b.Price > *q.MaxPrice {
		return false
	}
	return true
}

func (s *MemoryStore) ListBooks(q BookQuery) ([]domain.Book, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.Book
	for _, b := range s.books {
		if bookMatches(b, q) {
			matched = append(matched, b)
		}
	}
	sortBooks(matched, q.SortField, q.SortDesc)
	total := int64(len(matched))
	return pageSlice(matched, q.Offset, q.Limit), total, nil
}

func pubDate(b domain.Book) time.Time {
	if b.PublicationDate == nil {
		return time.Time{}
	}
	return b.PublicationDate.Time
}

func sortBooks(books []domain.Book, field string, desc bool) {
	less := func(a, b domain.Book) bool {
		switch field {
		case "isbn":
			return a.ISBN < b.ISBN
		case "title":
			return a.Title < b.Title
		case "price":
			return a.Price < b.Price
		case "publisher":
			return a.Publisher < b.Publisher
		case "summary":
			return a.Summary < b.Summary
		case "publication_date":
			return pubDate(a).Before(pubDate(b))
		case "authors":
			return strings.Join(a.Authors, ",") < strings.Join(b.Authors, ",")
		case "categories":
			return strings.Join(a.Categories, ",") < strings.Join(b.Categories, ",")
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(books, func(i, j int) bool {
		if desc {
			return less(books[j], books[i])
		}
		return less(books[i], books[j])
	})
}

func (s *MemoryStore) LatestBooks() ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sortBooks(books, "publication_date", true)
	return books, nil
}

func (s *MemoryStore) AllBooks() ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sortBooks(books, "id", false)
	return books, nil
}

func (s *MemoryStore) TopRatedBooks(limit int) ([]domain.RatedBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := make(map[int64]int)
	counts := make(map[int64]int64)
	for _, r := range s.ratings {
		sums[r.BookID] += r.Score
		counts[r.BookID]++
	}
	var rows []domain.RatedBook
	for bookID, count := range counts {
		b, ok := s.books[bookID]
		if !ok {
			continue
		}
		rows = append(rows, domain.RatedBook{
			ID:          b.ID,
			Title:       b.Title,
			AvgScore:    float64(sums[bookID]) / float64(count),
			RatingCount: count,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AvgScore != rows[j].AvgScore {
			return rows[i].AvgScore > rows[j].AvgScore
		}
		return rows[i].RatingCount > rows[j].RatingCount
	})
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) TopCommentedBooks(limit int) ([]domain.CommentedBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int64)
	for _, c := range s.comments {
		counts[c.BookID]++
	}
	var rows []domain.CommentedBook
	for bookID, count := range counts {
		b, ok := s.books[bookID]
		if !ok {
			continue
		}
		rows = append(rows, domain.CommentedBook{
			ID:           b.ID,
			Title:        b.Title,
			CommentCount: count,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CommentCount > rows[j].CommentCount
	})
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) CreateComment(c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCommentID++
	c.ID = s.nextCommentID
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.comments[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetComment(id int64) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return domain.Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) UpdateComment(c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.comments[c.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Content = c.Content
	existing.UpdatedAt = time.Now()
	s.comments[c.ID] = existing
	*c = existing
	return nil
}

func (s *MemoryStore) DeleteComment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *MemoryStore) ListComments(q CommentQuery) ([]domain.Comment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.Comment
	for _, c := range s.comments {
		if q.BookID != 0 && c.BookID != q.BookID {
			continue
		}
		if q.UserID != 0 && c.UserID != q.UserID {
			continue
		}
		if q.Keyword != "" && !containsFold(c.Content, q.Keyword) {
			continue
		}
		matched = append(matched, c)
	}
	sortComments(matched, q.SortField, q.SortDesc)
	total := int64(len(matched))
	return pageSlice(matched, q.Offset, q.Limit), total, nil
}

func sortComments(comments []domain.Comment, field string, desc bool) {
	less := func(a, b domain.Comment) bool {
		switch field {
		case "user_id":
			return a.UserID < b.UserID
		case "book_id":
			return a.BookID < b.BookID
		case "content":
			return a.Content < b.Content
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		if desc {
			return less(comments[j], comments[i])
		}
		return less(comments[i], comments[j])
	})
}

func (s *MemoryStore) CommentsByBook(bookID int64) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []domain.Comment
	for _, c := range s.comments {
		if c.BookID == bookID {
			comments = append(comments, c)
		}
	}
	sortComments(comments, "id", false)
	return comments, nil
}

func (s *MemoryStore) CreateRating(rt *domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ratings {
		if existing.UserID == rt.UserID && existing.BookID == rt.BookID {
			return ErrDuplicateRating
		}
	}
	s.nextRatingID++
	rt.ID = s.nextRatingID
	now := time.Now()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	s.ratings[rt.ID] = *rt
	return nil
}

func (s *MemoryStore) GetRating(userID, bookID int64) (domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.UserID == userID && r.BookID == bookID {
			return r, nil
		}
	}
	return domain.Rating{}, ErrNotFound
}

func (s *MemoryStore) UpdateRating(rt *domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.ratings {
		if r.UserID == rt.UserID && r.BookID == rt.BookID {
			r.Score = rt.Score
			r.UpdatedAt = time.Now()
			s.ratings[id] = r
			*rt = r
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteRating(userID, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.ratings {
		if r.UserID == userID && r.BookID == bookID {
			delete(s.ratings, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListRatings(q RatingQuery) ([]domain.Rating, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []domain.Rating
	for _, r := range s.ratings {
		if q.BookID != 0 && r.BookID != q.BookID {
			continue
		}
		if q.UserID != 0 && r.UserID != q.UserID {
			continue
		}
		if q.Score != nil && r.Score != *q.Score {
			continue
		}
		if q.MinScore != nil && r.Score < *q.MinScore {
			continue
		}
		if q.MaxScore != nil && r.Score > *q.MaxScore {
			continue
		}
		matched = append(matched, r)
	}
	sortRatings(matched, q.SortField, q.SortDesc)
	total := int64(len(matched))
	return pageSlice(matched, q.Offset, q.Limit), total, nil
}

func sortRatings(ratings []domain.Rating, field string, desc bool) {
	less := func(a, b domain.Rating) bool {
		switch field {
		case "user_id":
			return a.UserID < b.UserID
		case "book_id":
			return a.BookID < b.BookID
		case "score":
			return a.Score < b.Score
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		if desc {
			return less(ratings[j], ratings[i])
		}
		return less(ratings[i], ratings[j])
	})
}

func (s *MemoryStore) RatingSummary(bookID int64) (domain.RatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int
	var count int64
	for _, r := range s.ratings {
		if r.BookID == bookID {
			sum += r.Score
			count++
		}
	}
	summary := domain.RatingSummary{BookID: bookID}
	if count > 0 {
		summary.AverageRating = float64(sum) / float64(count)
		summary.ReviewCount = count
	}
	return summary, nil
}

func (s *MemoryStore) CountUsers() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) CountBooks() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.books)), nil
}

func (s *MemoryStore) CountComments() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.comments)), nil
}

func (s *MemoryStore) CountRatings() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.ratings)), nil
}

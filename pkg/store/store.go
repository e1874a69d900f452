// Package store persists users, books, comments and ratings. The
// Store interface is backed by Postgres via GORM in production and by
// an in-memory implementation in tests.
package store

import (
	"errors"

	"bookstore/pkg/domain"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateISBN   = errors.New("isbn already registered")
	ErrDuplicateRating = errors.New("rating already exists for user and book")
)

// UserQuery filters and pages the user listing. Sort fields use the
// column names (id, email, name, ...).
type UserQuery struct {
	Role      string
	Keyword   string
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

// BookQuery filters and pages book listings. Keyword matches title,
// summary, authors, categories and isbn as substrings.
type BookQuery struct {
	Keyword   string
	Category  string
	MinPrice  *int64
	MaxPrice  *int64
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

type CommentQuery struct {
	BookID    int64
	UserID    int64
	Keyword   string
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

type RatingQuery struct {
	BookID    int64
	UserID    int64
	Score     *int
	MinScore  *int
	MaxScore  *int
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

type Store interface {
	CreateUser(u *domain.User) error
	GetUser(id int64) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	UpdateUser(u *domain.User) error
	DeleteUser(id int64) error
	ListUsers(q UserQuery) ([]domain.User, int64, error)

	CreateBook(b *domain.Book) error
	GetBook(id int64) (domain.Book, error)
	GetBookByISBN(isbn string) (domain.Book, error)
	UpdateBook(b *domain.Book) error
	DeleteBook(id int64) error
	ListBooks(q BookQuery) ([]domain.Book, int64, error)
	LatestBooks() ([]domain.Book, error)
	AllBooks() ([]domain.Book, error)
	TopRatedBooks(limit int) ([]domain.RatedBook, error)
	TopCommentedBooks(limit int) ([]domain.CommentedBook, error)

	CreateComment(c *domain.Comment) error
	GetComment(id int64) (domain.Comment, error)
	UpdateComment(c *domain.Comment) error
	DeleteComment(id int64) error
	ListComments(q CommentQuery) ([]domain.Comment, int64, error)
	CommentsByBook(bookID int64) ([]domain.Comment, error)

	CreateRating(rt *domain.Rating) error
	GetRating(userID, bookID int64) (domain.Rating, error)
	UpdateRating(rt *domain.Rating) error
	DeleteRating(userID, bookID int64) error
	ListRatings(q RatingQuery) ([]domain.Rating, int64, error)
	RatingSummary(bookID int64) (domain.RatingSummary, error)

	CountUsers() (int64, error)
	CountBooks() (int64, error)
	CountComments() (int64, error)
	CountRatings() (int64, error)
}

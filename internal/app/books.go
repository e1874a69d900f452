package app

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

type CreateBookInput struct {
	ISBN            string       `json:"isbn"`
	Title           string       `json:"title"`
	Price           int64        `json:"price"`
	Publisher       string       `json:"publisher"`
	Summary         string       `json:"summary"`
	PublicationDate *domain.Date `json:"publicationDate"`
	Authors         []string     `json:"authors"`
	Categories      []string     `json:"categories"`
}

func validateBook(in CreateBookInput) []apierr.FieldError {
	var fields []apierr.FieldError
	if strings.TrimSpace(in.ISBN) == "" {
		fields = append(fields, apierr.FieldError{Field: "isbn", Msg: "must not be blank"})
	}
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, apierr.FieldError{Field: "title", Msg: "must not be blank"})
	}
	if in.Price < 0 {
		fields = append(fields, apierr.FieldError{Field: "price", Msg: "must be >= 0"})
	}
	return fields
}

// CreateBook registers a book. The ISBN pre-check gives the 409 on the
// common path; the unique constraint covers the race.
func (a *App) CreateBook(in CreateBookInput) (domain.Book, error) {
	if fields := validateBook(in); len(fields) > 0 {
		return domain.Book{}, apierr.Validation(fields...)
	}
	isbn := strings.TrimSpace(in.ISBN)
	if _, err := a.store.GetBookByISBN(isbn); err == nil {
		return domain.Book{}, apierr.New(http.StatusConflict, apierr.CodeDuplicateResource, "ISBN already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Book{}, fmt.Errorf("check isbn: %w", err)
	}
	book := domain.Book{
		ISBN:            isbn,
		Title:           strings.TrimSpace(in.Title),
		Price:           in.Price,
		Publisher:       strings.TrimSpace(in.Publisher),
		Summary:         in.Summary,
		PublicationDate: in.PublicationDate,
		Authors:         in.Authors,
		Categories:      in.Categories,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if book.Categories == nil {
		book.Categories = []string{}
	}
	if err := a.store.CreateBook(&book); err != nil {
		if errors.Is(err, store.ErrDuplicateISBN) {
			return domain.Book{}, apierr.New(http.StatusConflict, apierr.CodeDuplicateResource, "ISBN already registered")
		}
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// GetBook loads one book by id.
func (a *App) GetBook(id int64) (domain.Book, error) {
	book, err := a.store.GetBook(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Book{}, apierr.NotFound("Book not found")
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

type UpdateBookInput struct {
	ISBN            *string      `json:"isbn"`
	Title           *string      `json:"title"`
	Price           *int64       `json:"price"`
	Publisher       *string      `json:"publisher"`
	Summary         *string      `json:"summary"`
	PublicationDate *domain.Date `json:"publicationDate"`
	Authors         *[]string    `json:"authors"`
	Categories      *[]string    `json:"categories"`
}

// UpdateBook applies only the provided fields.
func (a *App) UpdateBook(id int64, in UpdateBookInput) (domain.Book, error) {
	book, err := a.GetBook(id)
	if err != nil {
		return domain.Book{}, err
	}
	if in.ISBN != nil {
		if strings.TrimSpace(*in.ISBN) == "" {
			return domain.Book{}, apierr.Validation(apierr.FieldError{Field: "isbn", Msg: "must not be blank"})
		}
		book.ISBN = strings.TrimSpace(*in.ISBN)
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return domain.Book{}, apierr.Validation(apierr.FieldError{Field: "title", Msg: "must not be blank"})
		}
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return domain.Book{}, apierr.Validation(apierr.FieldError{Field: "price", Msg: "must be >= 0"})
		}
		book.Price = *in.Price
	}
	if in.Publisher != nil {
		book.Publisher = strings.TrimSpace(*in.Publisher)
	}
	if in.Summary != nil {
		book.Summary = *in.Summary
	}
	if in.PublicationDate != nil {
		book.PublicationDate = in.PublicationDate
	}
	if in.Authors != nil {
		book.Authors = *in.Authors
	}
	if in.Categories != nil {
		book.Categories = *in.Categories
	}
	if err := a.store.UpdateBook(&book); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Book{}, apierr.NotFound("Book not found")
		case errors.Is(err, store.ErrDuplicateISBN):
			return domain.Book{}, apierr.New(http.StatusConflict, apierr.CodeDuplicateResource, "ISBN already registered")
		}
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes the book and its comments and ratings.
func (a *App) DeleteBook(id int64) error {
	if err := a.store.DeleteBook(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// ListBooks runs a filtered, paged book query.
func (a *App) ListBooks(q store.BookQuery) ([]domain.Book, int64, error) {
	books, total, err := a.store.ListBooks(q)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

// LatestBooks returns all books newest-publication first.
func (a *App) LatestBooks() ([]domain.Book, error) {
	books, err := a.store.LatestBooks()
	if err != nil {
		return nil, fmt.Errorf("latest books: %w", err)
	}
	return books, nil
}

func (a *App) TopRatedBooks(limit int) ([]domain.RatedBook, error) {
	rows, err := a.store.TopRatedBooks(limit)
	if err != nil {
		return nil, fmt.Errorf("top rated books: %w", err)
	}
	if rows == nil {
		rows = []domain.RatedBook{}
	}
	return rows, nil
}

func (a *App) TopCommentedBooks(limit int) ([]domain.CommentedBook, error) {
	rows, err := a.store.TopCommentedBooks(limit)
	if err != nil {
		return nil, fmt.Errorf("top commented books: %w", err)
	}
	if rows == nil {
		rows = []domain.CommentedBook{}
	}
	return rows, nil
}

// RandomBooks fetches the whole catalog, shuffles it and keeps the
// first limit entries. Deliberately O(n).
func (a *App) RandomBooks(limit int) ([]domain.Book, error) {
	books, err := a.store.AllBooks()
	if err != nil {
		return nil, fmt.Errorf("all books: %w", err)
	}
	rand.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})
	if limit < len(books) {
		books = books[:limit]
	}
	return books, nil
}

package store

import (
	"errors"
	"testing"

	"bookstore/pkg/domain"
)

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	u := domain.User{Email: "a@example.com", Name: "A", Role: domain.RoleUser, Status: domain.StatusActive}
	if err := s.CreateUser(&u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	dup := domain.User{Email: "a@example.com", Name: "B", Role: domain.RoleUser, Status: domain.StatusActive}
	if err := s.CreateUser(&dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryStoreDuplicateRating(t *testing.T) {
	s := NewMemoryStore()
	r := domain.Rating{UserID: 1, BookID: 2, Score: 4}
	if err := s.CreateRating(&r); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}
	dup := domain.Rating{UserID: 1, BookID: 2, Score: 5}
	if err := s.CreateRating(&dup); !errors.Is(err, ErrDuplicateRating) {
		t.Fatalf("expected ErrDuplicateRating, got %v", err)
	}
	other := domain.Rating{UserID: 1, BookID: 3, Score: 5}
	if err := s.CreateRating(&other); err != nil {
		t.Fatalf("CreateRating other book: %v", err)
	}
}

func TestMemoryStoreListBooksPagingAndSort(t *testing.T) {
	s := NewMemoryStore()
	titles := []string{"Charlie", "Alpha", "Bravo"}
	for i, title := range titles {
		b := domain.Book{ISBN: string(rune('a' + i)), Title: title, Price: int64(100 * (i + 1))}
		if err := s.CreateBook(&b); err != nil {
			t.Fatalf("CreateBook: %v", err)
		}
	}

	books, total, err := s.ListBooks(BookQuery{SortField: "title", Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(books) != 2 || books[0].Title != "Alpha" || books[1].Title != "Bravo" {
		t.Fatalf("unexpected page: %+v", books)
	}

	books, _, err = s.ListBooks(BookQuery{SortField: "price", SortDesc: true, Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if books[0].Price != 300 {
		t.Fatalf("expected highest price first, got %d", books[0].Price)
	}
}

func TestMemoryStoreKeywordSearch(t *testing.T) {
	s := NewMemoryStore()
	b1 := domain.Book{ISBN: "111", Title: "Go in Practice", Authors: []string{"Kim"}}
	b2 := domain.Book{ISBN: "222", Title: "Rust Book", Summary: "systems with go-like tooling"}
	for _, b := range []*domain.Book{&b1, &b2} {
		if err := s.CreateBook(b); err != nil {
			t.Fatalf("CreateBook: %v", err)
		}
	}
	books, total, err := s.ListBooks(BookQuery{Keyword: "go", SortField: "id", Limit: 10})
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if total != 2 || len(books) != 2 {
		t.Fatalf("expected both books to match, got total=%d", total)
	}
	books, total, _ = s.ListBooks(BookQuery{Keyword: "kim", SortField: "id", Limit: 10})
	if total != 1 || books[0].ISBN != "111" {
		t.Fatalf("expected author match only, got total=%d", total)
	}
}

func TestMemoryStoreRatingSummary(t *testing.T) {
	s := NewMemoryStore()
	b := domain.Book{ISBN: "x", Title: "X"}
	if err := s.CreateBook(&b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	empty, err := s.RatingSummary(b.ID)
	if err != nil {
		t.Fatalf("RatingSummary: %v", err)
	}
	if empty.AverageRating != 0 || empty.ReviewCount != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}

	for i, score := range []int{5, 4} {
		r := domain.Rating{UserID: int64(i + 1), BookID: b.ID, Score: score}
		if err := s.CreateRating(&r); err != nil {
			t.Fatalf("CreateRating: %v", err)
		}
	}
	summary, err := s.RatingSummary(b.ID)
	if err != nil {
		t.Fatalf("RatingSummary: %v", err)
	}
	if summary.ReviewCount != 2 || summary.AverageRating != 4.5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMemoryStoreDeleteBookCascades(t *testing.T) {
	s := NewMemoryStore()
	b := domain.Book{ISBN: "c", Title: "C"}
	if err := s.CreateBook(&b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	c := domain.Comment{UserID: 1, BookID: b.ID, Content: "nice"}
	if err := s.CreateComment(&c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	r := domain.Rating{UserID: 1, BookID: b.ID, Score: 3}
	if err := s.CreateRating(&r); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}

	if err := s.DeleteBook(b.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if n, _ := s.CountComments(); n != 0 {
		t.Fatalf("expected comments gone, have %d", n)
	}
	if n, _ := s.CountRatings(); n != 0 {
		t.Fatalf("expected ratings gone, have %d", n)
	}
	if err := s.DeleteBook(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package app

import (
	"net/http"
	"testing"

	"bookstore/pkg/apierr"
	"bookstore/pkg/store"
)

func TestCreateRatingCheckOrder(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")

	// book existence is checked before anything else
	_, err := a.CreateRating(user.ID, 999, 0)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)

	book := createBook(t, a, "isbn-1", "A")
	if _, err := a.CreateRating(user.ID, book.ID, 4); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}

	// duplicate wins over the score check
	_, err = a.CreateRating(user.ID, book.ID, 99)
	wantAPIError(t, err, http.StatusConflict, apierr.CodeStateConflict)
}

func TestCreateRatingScoreRange(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A")

	for _, score := range []int{0, 6, -3} {
		_, err := a.CreateRating(user.ID, book.ID, score)
		apiErr := wantAPIError(t, err, http.StatusUnprocessableEntity, apierr.CodeValidationFailed)
		fields, ok := apiErr.Details.([]apierr.FieldError)
		if !ok || len(fields) != 1 || fields[0].Field != "score" {
			t.Fatalf("unexpected details: %+v", apiErr.Details)
		}
	}
}

func TestUpdateRating(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A")

	_, err := a.UpdateRating(user.ID, book.ID, 3)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)

	if _, err := a.CreateRating(user.ID, book.ID, 2); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}
	updated, err := a.UpdateRating(user.ID, book.ID, 5)
	if err != nil {
		t.Fatalf("UpdateRating: %v", err)
	}
	if updated.Score != 5 {
		t.Fatalf("score = %d", updated.Score)
	}

	_, err = a.UpdateRating(user.ID, book.ID, 0)
	wantAPIError(t, err, http.StatusUnprocessableEntity, apierr.CodeValidationFailed)
}

func TestDeleteRating(t *testing.T) {
	a := newTestApp(t)
	user := registerUser(t, a, "reader@example.com")
	book := createBook(t, a, "isbn-1", "A")
	if _, err := a.CreateRating(user.ID, book.ID, 3); err != nil {
		t.Fatalf("CreateRating: %v", err)
	}

	if err := a.DeleteRating(user.ID, book.ID); err != nil {
		t.Fatalf("DeleteRating: %v", err)
	}
	err := a.DeleteRating(user.ID, book.ID)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)
}

func TestRatingSummaryRounding(t *testing.T) {
	a := newTestApp(t)
	book := createBook(t, a, "isbn-1", "A")

	empty, err := a.RatingSummary(book.ID)
	if err != nil {
		t.Fatalf("RatingSummary: %v", err)
	}
	if empty.AverageRating != 0 || empty.ReviewCount != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	scores := []int{5, 4, 4}
	for i, email := range emails {
		u := registerUser(t, a, email)
		if _, err := a.CreateRating(u.ID, book.ID, scores[i]); err != nil {
			t.Fatalf("CreateRating: %v", err)
		}
	}

	summary, err := a.RatingSummary(book.ID)
	if err != nil {
		t.Fatalf("RatingSummary: %v", err)
	}
	// 13/3 rounded to two decimals
	if summary.AverageRating != 4.33 || summary.ReviewCount != 3 {
		t.Fatalf("summary = %+v", summary)
	}

	_, err = a.RatingSummary(999)
	wantAPIError(t, err, http.StatusNotFound, apierr.CodeResourceNotFound)
}

func TestListRatingsScoreFilters(t *testing.T) {
	a := newTestApp(t)
	book := createBook(t, a, "isbn-1", "A")
	for i, score := range []int{1, 3, 5} {
		u := registerUser(t, a, string(rune('a'+i))+"@x.com")
		if _, err := a.CreateRating(u.ID, book.ID, score); err != nil {
			t.Fatalf("CreateRating: %v", err)
		}
	}

	minScore := 3
	_, total, err := a.ListRatings(store.RatingQuery{
		BookID: book.ID, MinScore: &minScore, SortField: "id", Limit: 10,
	})
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d", total)
	}

	exact := 5
	ratings, total, err := a.ListRatings(store.RatingQuery{
		BookID: book.ID, Score: &exact, SortField: "id", Limit: 10,
	})
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if total != 1 || ratings[0].Score != 5 {
		t.Fatalf("unexpected result: total=%d", total)
	}
}

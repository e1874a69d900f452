package app

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

func scoreError() *apierr.Error {
	return apierr.Validation(apierr.FieldError{Field: "score", Msg: "must be between 1~5"})
}

// CreateRating records a user's score for a book. Checks run in order:
// book existence, duplicate, then score range. A race-losing insert
// reports the same conflict as the pre-check.
func (a *App) CreateRating(userID, bookID int64, score int) (domain.Rating, error) {
	if _, err := a.store.GetBook(bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Rating{}, apierr.NotFound("Book not found")
		}
		return domain.Rating{}, fmt.Errorf("check book: %w", err)
	}
	if _, err := a.store.GetRating(userID, bookID); err == nil {
		return domain.Rating{}, apierr.New(http.StatusConflict, apierr.CodeStateConflict, "Rating already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Rating{}, fmt.Errorf("check rating: %w", err)
	}
	if score < 1 || score > 5 {
		return domain.Rating{}, scoreError()
	}
	rating := domain.Rating{UserID: userID, BookID: bookID, Score: score}
	if err := a.store.CreateRating(&rating); err != nil {
		if errors.Is(err, store.ErrDuplicateRating) {
			return domain.Rating{}, apierr.New(http.StatusConflict, apierr.CodeStateConflict, "Rating already exists")
		}
		return domain.Rating{}, fmt.Errorf("create rating: %w", err)
	}
	return rating, nil
}

// UpdateRating changes the caller's score for a book.
func (a *App) UpdateRating(userID, bookID int64, score int) (domain.Rating, error) {
	if _, err := a.store.GetRating(userID, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Rating{}, apierr.NotFound("Rating not found")
		}
		return domain.Rating{}, fmt.Errorf("get rating: %w", err)
	}
	if score < 1 || score > 5 {
		return domain.Rating{}, scoreError()
	}
	rating := domain.Rating{UserID: userID, BookID: bookID, Score: score}
	if err := a.store.UpdateRating(&rating); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Rating{}, apierr.NotFound("Rating not found")
		}
		return domain.Rating{}, fmt.Errorf("update rating: %w", err)
	}
	return rating, nil
}

// DeleteRating removes the caller's rating for a book.
func (a *App) DeleteRating(userID, bookID int64) error {
	if err := a.store.DeleteRating(userID, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Rating not found")
		}
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

// ListRatings runs a filtered, paged rating query.
func (a *App) ListRatings(q store.RatingQuery) ([]domain.Rating, int64, error) {
	ratings, total, err := a.store.ListRatings(q)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, total, nil
}

// RatingSummary aggregates a book's ratings. The average is rounded
// to two decimals; a book with no ratings reports 0.0 and 0.
func (a *App) RatingSummary(bookID int64) (domain.RatingSummary, error) {
	if _, err := a.store.GetBook(bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RatingSummary{}, apierr.NotFound("Book not found")
		}
		return domain.RatingSummary{}, fmt.Errorf("check book: %w", err)
	}
	summary, err := a.store.RatingSummary(bookID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("rating summary: %w", err)
	}
	summary.AverageRating = math.Round(summary.AverageRating*100) / 100
	return summary, nil
}

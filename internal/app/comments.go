package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
	"bookstore/pkg/store"
)

// CreateComment attaches a comment to an existing book.
func (a *App) CreateComment(userID, bookID int64, content string) (domain.Comment, error) {
	if _, err := a.store.GetBook(bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, apierr.NotFound("Book not found")
		}
		return domain.Comment{}, fmt.Errorf("check book: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, apierr.Validation(apierr.FieldError{Field: "content", Msg: "must not be blank"})
	}
	comment := domain.Comment{UserID: userID, BookID: bookID, Content: content}
	if err := a.store.CreateComment(&comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// UpdateComment edits a comment's content. Only the author may edit.
// A nil content is a no-op that returns the stored comment unchanged.
func (a *App) UpdateComment(callerID, commentID int64, content *string) (domain.Comment, error) {
	comment, err := a.store.GetComment(commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, apierr.NotFound("Comment not found")
		}
		return domain.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	if comment.UserID != callerID {
		return domain.Comment{}, apierr.New(http.StatusForbidden, apierr.CodeForbidden, "Not the comment author")
	}
	if content == nil {
		return comment, nil
	}
	if strings.TrimSpace(*content) == "" {
		return domain.Comment{}, apierr.Validation(apierr.FieldError{Field: "content", Msg: "must not be blank"})
	}
	comment.Content = *content
	if err := a.store.UpdateComment(&comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, apierr.NotFound("Comment not found")
		}
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment. The author may always delete; an
// admin may delete anyone's.
func (a *App) DeleteComment(caller domain.AuthUser, commentID int64) error {
	comment, err := a.store.GetComment(commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Comment not found")
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.UserID != caller.ID && caller.Role != domain.RoleAdmin {
		return apierr.New(http.StatusForbidden, apierr.CodeForbidden, "Not the comment author")
	}
	if err := a.store.DeleteComment(commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Comment not found")
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ListComments runs a filtered, paged comment query.
func (a *App) ListComments(q store.CommentQuery) ([]domain.Comment, int64, error) {
	comments, total, err := a.store.ListComments(q)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// CommentsByBook returns every comment for the book, oldest first.
func (a *App) CommentsByBook(bookID int64) ([]domain.Comment, error) {
	comments, err := a.store.CommentsByBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("comments by book: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

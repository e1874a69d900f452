package store

import (
	"strings"
	"time"

	"bookstore/pkg/domain"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Name         string `gorm:"size:100;not null"`
	Phone        string `gorm:"size:50"`
	Address      string `gorm:"size:255"`
	Role         string `gorm:"size:20;not null;default:USER"`
	Status       string `gorm:"size:20;not null;default:ACTIVE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type bookModel struct {
	ID              int64        `gorm:"primaryKey;autoIncrement"`
	ISBN            string       `gorm:"column:isbn;size:32;not null;uniqueIndex"`
	Title           string       `gorm:"size:255;not null"`
	Price           int64        `gorm:"not null"`
	Publisher       string       `gorm:"size:255"`
	Summary         string       `gorm:"type:text"`
	PublicationDate *domain.Date `gorm:"type:date"`
	Authors         string       `gorm:"size:512"`
	Categories      string       `gorm:"size:512"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (bookModel) TableName() string { return "books" }

type commentModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"not null;index"`
	BookID    int64  `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (commentModel) TableName() string { return "comments" }

type ratingModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"not null;uniqueIndex:uniq_user_book_rating"`
	BookID    int64 `gorm:"not null;uniqueIndex:uniq_user_book_rating"`
	Score     int   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ratingModel) TableName() string { return "ratings" }

func userToModel(u domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m userModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Phone:        m.Phone,
		Address:      m.Address,
		Role:         domain.UserRole(m.Role),
		Status:       domain.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// joinList flattens authors/categories into the delimited column
// format. Values containing the delimiter are stored as-is for
// compatibility with existing rows.
func joinList(values []string) string {
	return strings.Join(values, ",")
}

func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func bookToModel(b domain.Book) bookModel {
	return bookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Price:           b.Price,
		Publisher:       b.Publisher,
		Summary:         b.Summary,
		PublicationDate: b.PublicationDate,
		Authors:         joinList(b.Authors),
		Categories:      joinList(b.Categories),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func bookFromModel(m bookModel) domain.Book {
	return domain.Book{
		ID:              m.ID,
		ISBN:            m.ISBN,
		Title:           m.Title,
		Price:           m.Price,
		Publisher:       m.Publisher,
		Summary:         m.Summary,
		PublicationDate: m.PublicationDate,
		Authors:         splitList(m.Authors),
		Categories:      splitList(m.Categories),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func commentToModel(c domain.Comment) commentModel {
	return commentModel{
		ID:        c.ID,
		UserID:    c.UserID,
		BookID:    c.BookID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func commentFromModel(m commentModel) domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ratingToModel(r domain.Rating) ratingModel {
	return ratingModel{
		ID:        r.ID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ratingFromModel(m ratingModel) domain.Rating {
	return domain.Rating{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

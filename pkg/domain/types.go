package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// ParseUserRole maps an input string onto the closed role enumeration.
func ParseUserRole(role string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(role))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// ParseUserStatus maps an input string onto the closed status enumeration.
func ParseUserStatus(status string) (UserStatus, bool) {
	switch UserStatus(strings.ToUpper(strings.TrimSpace(status))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	default:
		return "", false
	}
}

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Book struct {
	ID              int64     `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Price           int64     `json:"price"`
	Publisher       string    `json:"publisher,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	PublicationDate *Date     `json:"publicationDate,omitempty"`
	Authors         []string  `json:"authors"`
	Categories      []string  `json:"categories"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthUser is the resolved identity of an authenticated caller.
type AuthUser struct {
	ID   int64    `json:"id"`
	Role UserRole `json:"role"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	Role         UserRole `json:"role"`
}

// RatedBook is a top-rated aggregation row.
type RatedBook struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	AvgScore    float64 `json:"avg_score"`
	RatingCount int64   `json:"rating_count"`
}

// CommentedBook is a top-commented aggregation row.
type CommentedBook struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	CommentCount int64  `json:"comment_count"`
}

// RatingSummary is the per-book rating aggregate.
type RatingSummary struct {
	BookID        int64   `json:"bookId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	Books    int64 `json:"books"`
	Users    int64 `json:"users"`
	Comments int64 `json:"comments"`
	Ratings  int64 `json:"ratings"`
}

const dateLayout = "2006-01-02"

// Date is a date-only value stored in a SQL date column and rendered
// as "2006-01-02" in JSON.
type Date struct {
	time.Time
}

// NewDate builds a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

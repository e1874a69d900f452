package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookstore/pkg/domain"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(databaseURL string) (*GormStore, error) {
	gl := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         gl,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&userModel{}, &bookModel{}, &commentModel{}, &ratingModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func orderClause(field string, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return field + " " + dir
}

func (s *GormStore) CreateUser(u *domain.User) error {
	m := userToModel(*u)
	if err := s.db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	*u = userFromModel(m)
	return nil
}

func (s *GormStore) GetUser(id int64) (domain.User, error) {
	var m userModel
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, error) {
	var m userModel
	if err := s.db.Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func (s *GormStore) UpdateUser(u *domain.User) error {
	m := userToModel(*u)
	res := s.db.Model(&userModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"email":         m.Email,
		"password_hash": m.PasswordHash,
		"name":          m.Name,
		"phone":         m.Phone,
		"address":       m.Address,
		"role":          m.Role,
		"status":        m.Status,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := s.GetUser(u.ID)
	if err != nil {
		return err
	}
	*u = updated
	return nil
}

// DeleteUser removes the user together with its comments and ratings.
func (s *GormStore) DeleteUser(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("user_id = ?", id).Delete(&commentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&ratingModel{}).Error
	})
}

func (s *GormStore) ListUsers(q UserQuery) ([]domain.User, int64, error) {
	tx := s.db.Model(&userModel{})
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		tx = tx.Where("email ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []userModel
	if err := tx.Order(orderClause(q.SortField, q.SortDesc)).
		Offset(q.Offset).Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, total, nil
}

func (s *GormStore) CreateBook(b *domain.Book) error {
	m := bookToModel(*b)
	if err := s.db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateISBN
		}
		return err
	}
	*b = bookFromModel(m)
	return nil
}

func (s *GormStore) GetBook(id int64) (domain.Book, error) {
	var m bookModel
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, ErrNotFound
		}
		return domain.Book{}, err
	}
	return bookFromModel(m), nil
}

func (s *GormStore) GetBookByISBN(isbn string) (domain.Book, error) {
	var m bookModel
	if err := s.db.Where("isbn = ?", isbn).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, ErrNotFound
		}
		return domain.Book{}, err
	}
	return bookFromModel(m), nil
}

func (s *GormStore) UpdateBook(b *domain.Book) error {
	m := bookToModel(*b)
	res := s.db.Model(&bookModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"isbn":             m.ISBN,
		"title":            m.Title,
		"price":            m.Price,
		"publisher":        m.Publisher,
		"summary":          m.Summary,
		"publication_date": m.PublicationDate,
		"authors":          m.Authors,
		"categories":       m.Categories,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateISBN
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := s.GetBook(b.ID)
	if err != nil {
		return err
	}
	*b = updated
	return nil
}

// DeleteBook removes the book together with its comments and ratings.
func (s *GormStore) DeleteBook(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&bookModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("book_id = ?", id).Delete(&commentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("book_id = ?", id).Delete(&ratingModel{}).Error
	})
}

func (s *GormStore) ListBooks(q BookQuery) ([]domain.Book, int64, error) {
	tx := s.db.Model(&bookModel{})
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		tx = tx.Where(
			"title ILIKE ? OR summary ILIKE ? OR authors ILIKE ? OR categories ILIKE ? OR isbn ILIKE ?",
			kw, kw, kw, kw, kw,
		)
	}
	if q.Category != "" {
		tx = tx.Where("categories ILIKE ?", "%"+q.Category+"%")
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []bookModel
	if err := tx.Order(orderClause(q.SortField, q.SortDesc)).
		Offset(q.Offset).Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, total, nil
}

func (s *GormStore) LatestBooks() ([]domain.Book, error) {
	var models []bookModel
	if err := s.db.Order("publication_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

func (s *GormStore) AllBooks() ([]domain.Book, error) {
	var models []bookModel
	if err := s.db.Find(&models).Error; err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

func (s *GormStore) TopRatedBooks(limit int) ([]domain.RatedBook, error) {
	var rows []domain.RatedBook
	err := s.db.Table("ratings").
		Select("books.id AS id, books.title AS title, AVG(ratings.score) AS avg_score, COUNT(ratings.id) AS rating_count").
		Joins("JOIN books ON books.id = ratings.book_id").
		Group("books.id, books.title").
		Order("avg_score DESC, rating_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) TopCommentedBooks(limit int) ([]domain.CommentedBook, error) {
	var rows []domain.CommentedBook
	err := s.db.Table("comments").
		Select("books.id AS id, books.title AS title, COUNT(comments.id) AS comment_count").
		Joins("JOIN books ON books.id = comments.book_id").
		Group("books.id, books.title").
		Order("comment_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CreateComment(c *domain.Comment) error {
	m := commentToModel(*c)
	if err := s.db.Create(&m).Error; err != nil {
		return err
	}
	*c = commentFromModel(m)
	return nil
}

func (s *GormStore) GetComment(id int64) (domain.Comment, error) {
	var m commentModel
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Comment{}, ErrNotFound
		}
		return domain.Comment{}, err
	}
	return commentFromModel(m), nil
}

func (s *GormStore) UpdateComment(c *domain.Comment) error {
	res := s.db.Model(&commentModel{}).Where("id = ?", c.ID).
		Update("content", c.Content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := s.GetComment(c.ID)
	if err != nil {
		return err
	}
	*c = updated
	return nil
}

func (s *GormStore) DeleteComment(id int64) error {
	res := s.db.Delete(&commentModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListComments(q CommentQuery) ([]domain.Comment, int64, error) {
	tx := s.db.Model(&commentModel{})
	if q.BookID != 0 {
		tx = tx.Where("book_id = ?", q.BookID)
	}
	if q.UserID != 0 {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Keyword != "" {
		tx = tx.Where("content ILIKE ?", "%"+q.Keyword+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []commentModel
	if err := tx.Order(orderClause(q.SortField, q.SortDesc)).
		Offset(q.Offset).Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	comments := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		comments = append(comments, commentFromModel(m))
	}
	return comments, total, nil
}

func (s *GormStore) CommentsByBook(bookID int64) ([]domain.Comment, error) {
	var models []commentModel
	if err := s.db.Where("book_id = ?", bookID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	comments := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		comments = append(comments, commentFromModel(m))
	}
	return comments, nil
}

func (s *GormStore) CreateRating(rt *domain.Rating) error {
	m := ratingToModel(*rt)
	if err := s.db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRating
		}
		return err
	}
	*rt = ratingFromModel(m)
	return nil
}

func (s *GormStore) GetRating(userID, bookID int64) (domain.Rating, error) {
	var m ratingModel
	err := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return ratingFromModel(m), nil
}

func (s *GormStore) UpdateRating(rt *domain.Rating) error {
	res := s.db.Model(&ratingModel{}).
		Where("user_id = ? AND book_id = ?", rt.UserID, rt.BookID).
		Update("score", rt.Score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := s.GetRating(rt.UserID, rt.BookID)
	if err != nil {
		return err
	}
	*rt = updated
	return nil
}

func (s *GormStore) DeleteRating(userID, bookID int64) error {
	res := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&ratingModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListRatings(q RatingQuery) ([]domain.Rating, int64, error) {
	tx := s.db.Model(&ratingModel{})
	if q.BookID != 0 {
		tx = tx.Where("book_id = ?", q.BookID)
	}
	if q.UserID != 0 {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Score != nil {
		tx = tx.Where("score = ?", *q.Score)
	}
	if q.MinScore != nil {
		tx = tx.Where("score >= ?", *q.MinScore)
	}
	if q.MaxScore != nil {
		tx = tx.Where("score <= ?", *q.MaxScore)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []ratingModel
	if err := tx.Order(orderClause(q.SortField, q.SortDesc)).
		Offset(q.Offset).Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	ratings := make([]domain.Rating, 0, len(models))
	for _, m := range models {
		ratings = append(ratings, ratingFromModel(m))
	}
	return ratings, total, nil
}

// RatingSummary returns the raw average; rounding happens in the
// service layer.
func (s *GormStore) RatingSummary(bookID int64) (domain.RatingSummary, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := s.db.Model(&ratingModel{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(id) AS count").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.RatingSummary{
		BookID:        bookID,
		AverageRating: row.Avg,
		ReviewCount:   row.Count,
	}, nil
}

func (s *GormStore) CountUsers() (int64, error)    { return s.count(&userModel{}) }
func (s *GormStore) CountBooks() (int64, error)    { return s.count(&bookModel{}) }
func (s *GormStore) CountComments() (int64, error) { return s.count(&commentModel{}) }
func (s *GormStore) CountRatings() (int64, error)  { return s.count(&ratingModel{}) }

func (s *GormStore) count(model any) (int64, error) {
	var n int64
	if err := s.db.Model(model).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

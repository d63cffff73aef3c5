package repository

import (
	"context"

	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/pkg/apperror"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindAll(ctx context.Context, query string) ([]*model.Book, error)
	ISBNInUse(ctx context.Context, isbn string, excludeID uint) (bool, error)
	UpdateWithDelta(ctx context.Context, book *model.Book, quantityDelta int) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAll lists books ordered by title; a non-empty query filters by
// case-insensitive substring over title, author and category. LOWER/LIKE is
// used so the same statement runs under Postgres and sqlite.
func (r *bookRepository) FindAll(ctx context.Context, query string) ([]*model.Book, error) {
	var books []*model.Book
	q := r.db.WithContext(ctx)

	if query != "" {
		term := "%" + query + "%"
		q = q.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			term, term, term,
		)
	}

	if err := q.Order("title").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ISBNInUse(ctx context.Context, isbn string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Book{}).Where("isbn = ?", isbn)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateWithDelta applies the book fields and shifts available_quantity by
// quantityDelta in one guarded statement, so the counter can never be driven
// below zero by a stock reduction racing with outstanding loans.
func (r *bookRepository) UpdateWithDelta(ctx context.Context, book *model.Book, quantityDelta int) error {
	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND available_quantity + ? >= 0", book.ID, quantityDelta).
		Updates(map[string]interface{}{
			"title":              book.Title,
			"author":             book.Author,
			"category":           book.Category,
			"isbn":               book.ISBN,
			"quantity":           book.Quantity,
			"available_quantity": gorm.Expr("available_quantity + ?", quantityDelta),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInvalidQuantity
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, "id = ?", id).Error
}

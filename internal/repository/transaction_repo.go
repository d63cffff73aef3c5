package repository

import (
	"context"
	"fmt"
	"time"

	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/pkg/apperror"
	"gorm.io/gorm"
)

var outstandingStatuses = []string{model.StatusIssued, model.StatusOverdue}

type TransactionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	FindAll(ctx context.Context) ([]*model.Transaction, error)
	FindByStudent(ctx context.Context, studentID uint) ([]*model.Transaction, error)
	HasOutstanding(ctx context.Context, bookID, studentID uint) (bool, error)
	CountOutstandingByBook(ctx context.Context, bookID uint) (int64, error)
	CountOutstandingByStudent(ctx context.Context, studentID uint) (int64, error)

	Issue(ctx context.Context, trx *model.Transaction) error
	Return(ctx context.Context, trx *model.Transaction, returnedAt time.Time) error
	UpdateDueDate(ctx context.Context, id uint, dueDate time.Time) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var trx model.Transaction
	if err := r.db.WithContext(ctx).First(&trx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *transactionRepository) FindAll(ctx context.Context) ([]*model.Transaction, error) {
	var trxs []*model.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Student").
		Order("issue_date DESC").
		Find(&trxs).Error; err != nil {
		return nil, err
	}
	return trxs, nil
}

func (r *transactionRepository) FindByStudent(ctx context.Context, studentID uint) ([]*model.Transaction, error) {
	var trxs []*model.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("student_id = ?", studentID).
		Order("issue_date DESC").
		Find(&trxs).Error; err != nil {
		return nil, err
	}
	return trxs, nil
}

func (r *transactionRepository) HasOutstanding(ctx context.Context, bookID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("book_id = ? AND student_id = ? AND status IN ?", bookID, studentID, outstandingStatuses).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *transactionRepository) CountOutstandingByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("book_id = ? AND status IN ?", bookID, outstandingStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *transactionRepository) CountOutstandingByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("student_id = ? AND status IN ?", studentID, outstandingStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Issue inserts the loan record and claims a copy with a compare-and-set
// decrement in the same transaction. When no copy is free the decrement
// affects zero rows and the whole write rolls back.
func (r *transactionRepository) Issue(ctx context.Context, trx *model.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Book{}).
			Where("id = ? AND available_quantity > 0", trx.BookID).
			Update("available_quantity", gorm.Expr("available_quantity - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.ErrBookUnavailable
		}

		return tx.Create(trx).Error
	})
}

// Return closes the loan and releases its copy atomically. The increment is
// guarded by available_quantity < quantity so the counter can never exceed
// the owned stock.
func (r *transactionRepository) Return(ctx context.Context, trx *model.Transaction, returnedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Transaction{}).
			Where("id = ? AND status IN ?", trx.ID, outstandingStatuses).
			Updates(map[string]interface{}{
				"status":      model.StatusReturned,
				"return_date": returnedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.ErrAlreadyReturned
		}

		result = tx.Model(&model.Book{}).
			Where("id = ? AND available_quantity < quantity", trx.BookID).
			Update("available_quantity", gorm.Expr("available_quantity + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("availability counter out of sync for book %d", trx.BookID)
		}

		return nil
	})
}

func (r *transactionRepository) UpdateDueDate(ctx context.Context, id uint, dueDate time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("due_date", dueDate).Error
}

// MarkOverdue relabels every past-due outstanding loan. Running it again
// with the same clock is a no-op.
func (r *transactionRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("status = ? AND due_date < ?", model.StatusIssued, now).
		Update("status", model.StatusOverdue)
	return result.RowsAffected, result.Error
}

package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/repository"
	"anoa.com/librarydesk/pkg/apperror"
	"gorm.io/gorm"
)

// ExtensionPeriod is the fixed increment applied to a loan's due date on
// each extension.
const ExtensionPeriod = 7 * 24 * time.Hour

var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

type LendingService interface {
	List(ctx context.Context) ([]dto.TransactionResponse, error)
	Issue(ctx context.Context, req dto.IssueRequest) error
	Return(ctx context.Context, transactionID uint) error
	Extend(ctx context.Context, transactionID uint) error
	SweepOverdue(ctx context.Context) error
	Request(ctx context.Context, studentID, bookID uint) error
}

type lendingService struct {
	trxs  repository.TransactionRepository
	books repository.BookRepository
}

func NewLendingService(trxs repository.TransactionRepository, books repository.BookRepository) LendingService {
	return &lendingService{trxs: trxs, books: books}
}

func (s *lendingService) List(ctx context.Context) ([]dto.TransactionResponse, error) {
	trxs, err := s.trxs.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, 0, len(trxs))
	for _, trx := range trxs {
		responses = append(responses, dto.TransactionResponse{
			ID:          trx.ID,
			BookID:      trx.BookID,
			StudentID:   trx.StudentID,
			IssueDate:   trx.IssueDate,
			DueDate:     trx.DueDate,
			ReturnDate:  trx.ReturnDate,
			Status:      trx.Status,
			BookTitle:   trx.Book.Title,
			StudentName: trx.Student.Name,
		})
	}
	return responses, nil
}

// Issue creates the loan and claims a copy atomically. There is no
// duplicate-loan check on this path; issuing the same book twice to one
// student is left to librarian discretion.
func (s *lendingService) Issue(ctx context.Context, req dto.IssueRequest) error {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}

	book, err := s.findBook(ctx, req.BookID)
	if err != nil {
		return err
	}
	if book.AvailableQuantity <= 0 {
		return apperror.ErrBookUnavailable
	}

	trx := &model.Transaction{
		BookID:    req.BookID,
		StudentID: req.StudentID,
		DueDate:   dueDate,
		Status:    model.StatusIssued,
	}

	return s.trxs.Issue(ctx, trx)
}

func (s *lendingService) Return(ctx context.Context, transactionID uint) error {
	trx, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if !trx.Outstanding() {
		return apperror.ErrAlreadyReturned
	}

	return s.trxs.Return(ctx, trx, time.Now())
}

func (s *lendingService) Extend(ctx context.Context, transactionID uint) error {
	trx, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if !trx.Outstanding() {
		return apperror.ErrNotIssued
	}

	return s.trxs.UpdateDueDate(ctx, trx.ID, trx.DueDate.Add(ExtensionPeriod))
}

func (s *lendingService) SweepOverdue(ctx context.Context) error {
	_, err := s.trxs.MarkOverdue(ctx, time.Now())
	return err
}

// Request is the student-initiated advisory path: it validates that the book
// could be issued but mutates nothing; a librarian completes the loan.
func (s *lendingService) Request(ctx context.Context, studentID, bookID uint) error {
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.AvailableQuantity <= 0 {
		return apperror.ErrBookUnavailable
	}

	held, err := s.trxs.HasOutstanding(ctx, bookID, studentID)
	if err != nil {
		return err
	}
	if held {
		return apperror.ErrAlreadyHeld
	}

	return nil
}

func (s *lendingService) findBook(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *lendingService) findTransaction(ctx context.Context, id uint) (*model.Transaction, error) {
	trx, err := s.trxs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}
	return trx, nil
}

func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.New(http.StatusBadRequest, "Invalid due date", nil)
}

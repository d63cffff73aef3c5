package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/pkg/apperror"
)

func latestTransaction(t *testing.T, db *gorm.DB, bookID uint) *model.Transaction {
	var trx model.Transaction
	require.NoError(t, db.Where("book_id = ?", bookID).Order("id DESC").First(&trx).Error)
	return &trx
}

func TestLendingService_Issue(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 2)
	student := registerStudent(t, db, "alice", "alice@example.com")

	err := svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, getBook(t, db, book.ID).AvailableQuantity)

	trx := latestTransaction(t, db, book.ID)
	assert.Equal(t, model.StatusIssued, trx.Status)
	assert.Equal(t, student.ID, trx.StudentID)
	assert.True(t, trx.DueDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, trx.ReturnDate)
}

func TestLendingService_Issue_LastCopyTwice(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Rare", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	req := dto.IssueRequest{BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01"}
	require.NoError(t, svc.Issue(ctx, req))

	err := svc.Issue(ctx, req)
	assert.ErrorIs(t, err, apperror.ErrBookUnavailable)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("book_id = ?", book.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLendingService_Issue_InvalidDueDate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	err := svc.Issue(context.Background(), dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "01/01/2024",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid due date", appErr.Message)
}

func TestLendingService_Issue_UnknownBook(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	student := registerStudent(t, db, "alice", "alice@example.com")

	err := svc.Issue(context.Background(), dto.IssueRequest{
		BookID: 999, StudentID: student.ID, DueDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, apperror.ErrBookNotFound)
}

func TestLendingService_ReturnTwice(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))
	trx := latestTransaction(t, db, book.ID)

	require.NoError(t, svc.Return(ctx, trx.ID))
	assert.Equal(t, 1, getBook(t, db, book.ID).AvailableQuantity)

	err := svc.Return(ctx, trx.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReturned)
	assert.Equal(t, 1, getBook(t, db, book.ID).AvailableQuantity)
}

func TestLendingService_Return_UnknownTransaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)

	err := svc.Return(context.Background(), 999)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestLendingService_Extend_AddsSevenDaysEachTime(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))
	trx := latestTransaction(t, db, book.ID)

	require.NoError(t, svc.Extend(ctx, trx.ID))
	assert.True(t, latestTransaction(t, db, book.ID).DueDate.Equal(
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, svc.Extend(ctx, trx.ID))
	assert.True(t, latestTransaction(t, db, book.ID).DueDate.Equal(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestLendingService_Extend_ReturnedLoan(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))
	trx := latestTransaction(t, db, book.ID)
	require.NoError(t, svc.Return(ctx, trx.ID))

	err := svc.Extend(ctx, trx.ID)
	assert.ErrorIs(t, err, apperror.ErrNotIssued)
}

func TestLendingService_SweepOverdue(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 2)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))
	future := time.Now().Add(30 * 24 * time.Hour).Format("2006-01-02")
	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: future,
	}))

	require.NoError(t, svc.SweepOverdue(ctx))

	var overdue, issued int64
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("status = ?", model.StatusOverdue).Count(&overdue).Error)
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("status = ?", model.StatusIssued).Count(&issued).Error)
	assert.EqualValues(t, 1, overdue)
	assert.EqualValues(t, 1, issued)

	// Running the sweep again changes nothing
	require.NoError(t, svc.SweepOverdue(ctx))
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("status = ?", model.StatusOverdue).Count(&overdue).Error)
	assert.EqualValues(t, 1, overdue)
}

func TestLendingService_OverdueLoanStillReturnable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))
	require.NoError(t, svc.SweepOverdue(ctx))

	trx := latestTransaction(t, db, book.ID)
	require.Equal(t, model.StatusOverdue, trx.Status)

	require.NoError(t, svc.Return(ctx, trx.ID))
	assert.Equal(t, model.StatusReturned, latestTransaction(t, db, book.ID).Status)
	assert.Equal(t, 1, getBook(t, db, book.ID).AvailableQuantity)
}

func TestLendingService_Request(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Request(ctx, student.ID, book.ID))

	// Requesting never claims a copy
	assert.Equal(t, 1, getBook(t, db, book.ID).AvailableQuantity)
	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLendingService_Request_AlreadyHeld(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 3)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))

	err := svc.Request(ctx, student.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyHeld)

	// Still held after the loan goes overdue
	require.NoError(t, svc.SweepOverdue(ctx))
	err = svc.Request(ctx, student.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyHeld)

	// Returning the copy frees the student to request again
	trx := latestTransaction(t, db, book.ID)
	require.NoError(t, svc.Return(ctx, trx.ID))
	require.NoError(t, svc.Request(ctx, student.ID, book.ID))
}

func TestLendingService_Request_NoCopiesLeft(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Rare", 1)
	alice := registerStudent(t, db, "alice", "alice@example.com")
	bob := registerStudent(t, db, "bob", "bob@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: alice.ID, DueDate: "2024-01-01",
	}))

	err := svc.Request(ctx, bob.ID, book.ID)
	assert.ErrorIs(t, err, apperror.ErrBookUnavailable)
}

func TestLendingService_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := newLendingService(db)
	ctx := context.Background()

	book := addBook(t, db, "Dune", 1)
	student := registerStudent(t, db, "alice", "alice@example.com")

	require.NoError(t, svc.Issue(ctx, dto.IssueRequest{
		BookID: book.ID, StudentID: student.ID, DueDate: "2024-01-01",
	}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].BookTitle)
	assert.Equal(t, "Test Student", list[0].StudentName)
	assert.Equal(t, model.StatusIssued, list[0].Status)
}

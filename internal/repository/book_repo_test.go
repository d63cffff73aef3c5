package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/pkg/apperror"
)

func TestBookRepository_CreateAndFind(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	isbn := "9780134190440"
	book := &model.Book{
		Title:             "The Go Programming Language",
		Author:            "Donovan",
		Category:          "Programming",
		ISBN:              &isbn,
		Quantity:          3,
		AvailableQuantity: 3,
	}

	require.NoError(t, repo.Create(ctx, book))
	assert.NotZero(t, book.ID)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", found.Title)
	assert.Equal(t, 3, found.AvailableQuantity)
}

func TestBookRepository_FindByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)

	_, err := repo.FindByID(context.Background(), 999)
	assert.Error(t, err)
}

func TestBookRepository_FindAll_Search(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	createTestBook(t, db, "Learning Go", 1)
	createTestBook(t, db, "Clean Architecture", 1)
	createTestBook(t, db, "Go in Action", 1)

	books, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, books, 3)
	// Ordered by title
	assert.Equal(t, "Clean Architecture", books[0].Title)

	// Case-insensitive substring over title
	books, err = repo.FindAll(ctx, "gO")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	// Matches author too
	books, err = repo.FindAll(ctx, "test author")
	require.NoError(t, err)
	assert.Len(t, books, 3)

	books, err = repo.FindAll(ctx, "no such book")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookRepository_ISBNInUse(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	isbn := "1234567890"
	book := &model.Book{Title: "A", Author: "B", Category: "C", ISBN: &isbn, Quantity: 1, AvailableQuantity: 1}
	require.NoError(t, repo.Create(ctx, book))

	inUse, err := repo.ISBNInUse(ctx, isbn, 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	// The owning book is excluded when checking an update
	inUse, err = repo.ISBNInUse(ctx, isbn, book.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	inUse, err = repo.ISBNInUse(ctx, "0987654321", 0)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestBookRepository_UpdateWithDelta(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Stocked", 5)

	// Simulate 3 copies on loan
	require.NoError(t, db.Model(book).Update("available_quantity", 2).Error)

	update := &model.Book{
		ID:       book.ID,
		Title:    "Stocked",
		Author:   book.Author,
		Category: book.Category,
		Quantity: 6,
	}

	require.NoError(t, repo.UpdateWithDelta(ctx, update, 1))

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, found.Quantity)
	assert.Equal(t, 3, found.AvailableQuantity)
}

func TestBookRepository_UpdateWithDelta_RejectsNegativeAvailability(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Stocked", 5)
	require.NoError(t, db.Model(book).Update("available_quantity", 2).Error)

	// Reducing stock to 1 with 3 copies on loan would drive the counter to -2
	update := &model.Book{
		ID:       book.ID,
		Title:    "Stocked",
		Author:   book.Author,
		Category: book.Category,
		Quantity: 1,
	}

	err := repo.UpdateWithDelta(ctx, update, -4)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	// Nothing changed
	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
	assert.Equal(t, 2, found.AvailableQuantity)
}

func TestBookRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(db)
	ctx := context.Background()

	book := createTestBook(t, db, "Temp", 1)

	require.NoError(t, repo.Delete(ctx, book.ID))

	_, err := repo.FindByID(ctx, book.ID)
	assert.Error(t, err)
}

package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/librarydesk/internal/bootstrap"
	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/repository"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_service_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, bootstrap.Migrate(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func newAuthService(db *gorm.DB) AuthService {
	repo := repository.NewUserRepository(db)
	return NewAuthService(repo, NewLoginLimiter(nil, 5, time.Minute), "test-secret", time.Hour)
}

func newBookService(db *gorm.DB) BookService {
	return NewBookService(
		repository.NewBookRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func newStudentService(db *gorm.DB) StudentService {
	return NewStudentService(
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func newLendingService(db *gorm.DB) LendingService {
	return NewLendingService(
		repository.NewTransactionRepository(db),
		repository.NewBookRepository(db),
	)
}

func registerStudent(t *testing.T, db *gorm.DB, username, email string) *model.Student {
	err := newAuthService(db).Register(context.Background(), dto.RegisterRequest{
		Username: username,
		Password: "secret123",
		Name:     "Test Student",
		Email:    email,
	})
	require.NoError(t, err)

	var student model.Student
	require.NoError(t, db.Where("email = ?", email).First(&student).Error)
	return &student
}

func addBook(t *testing.T, db *gorm.DB, title string, quantity int) *model.Book {
	book := &model.Book{
		Title:             title,
		Author:            "Author",
		Category:          "Fiction",
		Quantity:          quantity,
		AvailableQuantity: quantity,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func getBook(t *testing.T, db *gorm.DB, id uint) *model.Book {
	var book model.Book
	require.NoError(t, db.First(&book, id).Error)
	return &book
}

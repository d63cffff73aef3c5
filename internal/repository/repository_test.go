package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/librarydesk/internal/model"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_repo_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.User{}, &model.Student{}, &model.Book{}, &model.Transaction{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestBook(t *testing.T, db *gorm.DB, title string, quantity int) *model.Book {
	book := &model.Book{
		Title:             title,
		Author:            "Test Author",
		Category:          "Fiction",
		Quantity:          quantity,
		AvailableQuantity: quantity,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func createTestStudent(t *testing.T, db *gorm.DB, username, email string) *model.Student {
	user := &model.User{Username: username, Password: "hash", Role: model.RoleStudent}
	require.NoError(t, db.Create(user).Error)

	student := &model.Student{UserID: user.ID, Name: "Test Student", Email: email}
	require.NoError(t, db.Create(student).Error)
	return student
}

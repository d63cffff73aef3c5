package repository

import (
	"context"

	"anoa.com/librarydesk/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateWithStudent(ctx context.Context, user *model.User, student *model.Student) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error)

	FindStudentByID(ctx context.Context, id uint) (*model.Student, error)
	FindStudentByEmail(ctx context.Context, email string) (*model.Student, error)
	FindStudentByUserID(ctx context.Context, userID uint) (*model.Student, error)
	FindAllStudents(ctx context.Context) ([]*model.Student, error)
	UpdateStudentWithUser(ctx context.Context, student *model.Student, user *model.User) error
	DeleteStudentWithUser(ctx context.Context, student *model.Student) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithStudent(ctx context.Context, user *model.User, student *model.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		student.UserID = user.ID
		return tx.Create(student).Error
	})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("username = ? AND role = ?", username, role).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindStudentByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *userRepository) FindStudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *userRepository) FindStudentByUserID(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *userRepository) FindAllStudents(ctx context.Context) ([]*model.Student, error) {
	var students []*model.Student
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("name").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

// UpdateStudentWithUser saves the profile row and, when user is non-nil, its
// paired login identity in one transaction.
func (r *userRepository) UpdateStudentWithUser(ctx context.Context, student *model.Student, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			return err
		}

		if user != nil {
			if err := tx.Save(user).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteStudentWithUser removes the student row and then its paired user.
func (r *userRepository) DeleteStudentWithUser(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Student{}, "id = ?", student.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, "id = ?", student.UserID).Error
	})
}

package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/repository"
	"anoa.com/librarydesk/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (*dto.StudentResponse, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (uint, error)
	Update(ctx context.Context, id uint, req dto.UpdateStudentRequest) error
	Delete(ctx context.Context, id uint) error
	ListLoans(ctx context.Context, id uint) ([]dto.LoanResponse, error)
}

type studentService struct {
	users repository.UserRepository
	trxs  repository.TransactionRepository
}

func NewStudentService(users repository.UserRepository, trxs repository.TransactionRepository) StudentService {
	return &studentService{users: users, trxs: trxs}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.users.FindAllStudents(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, toStudentResponse(st))
	}
	return responses, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (*dto.StudentResponse, error) {
	student, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) Create(ctx context.Context, req dto.CreateStudentRequest) (uint, error) {
	if err := ensureStudentUnique(ctx, s.users, req.Username, req.Email); err != nil {
		return 0, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Password: string(hashed),
		Role:     model.RoleStudent,
	}

	student := &model.Student{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   normalizeOptional(req.Phone),
		Address: normalizeOptional(req.Address),
	}

	if err := s.users.CreateWithStudent(ctx, user, student); err != nil {
		return 0, err
	}

	return student.ID, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req dto.UpdateStudentRequest) error {
	student, err := s.findStudent(ctx, id)
	if err != nil {
		return err
	}

	if req.Email != student.Email {
		if _, err := s.users.FindStudentByEmail(ctx, req.Email); err == nil {
			return apperror.ErrDuplicateEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	student.Name = req.Name
	student.Email = req.Email
	student.Phone = normalizeOptional(req.Phone)
	student.Address = normalizeOptional(req.Address)

	var user *model.User
	if req.Username != nil || req.Password != nil {
		u := student.User
		user = &u

		if req.Username != nil && *req.Username != user.Username {
			if existing, err := s.users.FindByUsername(ctx, *req.Username); err == nil {
				if existing.ID != user.ID {
					return apperror.ErrDuplicateUsername
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user.Username = *req.Username
		}

		if req.Password != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.Password = string(hashed)
		}
	}

	return s.users.UpdateStudentWithUser(ctx, student, user)
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	student, err := s.findStudent(ctx, id)
	if err != nil {
		return err
	}

	outstanding, err := s.trxs.CountOutstandingByStudent(ctx, id)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return apperror.ErrStudentHasLoans
	}

	return s.users.DeleteStudentWithUser(ctx, student)
}

func (s *studentService) ListLoans(ctx context.Context, id uint) ([]dto.LoanResponse, error) {
	if _, err := s.findStudent(ctx, id); err != nil {
		return nil, err
	}

	trxs, err := s.trxs.FindByStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	loans := make([]dto.LoanResponse, 0, len(trxs))
	for _, trx := range trxs {
		loans = append(loans, dto.LoanResponse{
			ID:         trx.ID,
			BookID:     trx.BookID,
			StudentID:  trx.StudentID,
			IssueDate:  trx.IssueDate,
			DueDate:    trx.DueDate,
			ReturnDate: trx.ReturnDate,
			Status:     trx.Status,
			Title:      trx.Book.Title,
			Author:     trx.Book.Author,
			Category:   trx.Book.Category,
		})
	}
	return loans, nil
}

func (s *studentService) findStudent(ctx context.Context, id uint) (*model.Student, error) {
	student, err := s.users.FindStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func toStudentResponse(st *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        st.ID,
		UserID:    st.UserID,
		Username:  st.User.Username,
		Name:      st.Name,
		Email:     st.Email,
		Phone:     st.Phone,
		Address:   st.Address,
		CreatedAt: st.CreatedAt,
	}
}

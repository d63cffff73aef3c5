package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/repository"
	"anoa.com/librarydesk/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims is the token payload: identity, role and, for students, their
// profile id so ownership checks don't need a DB round trip.
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	StudentID *uint  `json:"studentId,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, input dto.RegisterRequest) error
}

type authService struct {
	repo     repository.UserRepository
	limiter  *LoginLimiter
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, limiter *LoginLimiter, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	return &authService{
		repo:     repo,
		limiter:  limiter,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	blocked, err := s.limiter.Blocked(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperror.ErrRateLimitExceeded
	}

	user, err := s.repo.FindByUsernameAndRole(ctx, input.Username, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.limiter.RecordFailure(ctx, input.Username); err != nil {
				return nil, err
			}
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	// Admin passwords are compared against the seeded value directly,
	// students through bcrypt.
	var match bool
	if user.Role == model.RoleAdmin {
		match = input.Password == user.Password
	} else {
		match = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) == nil
	}

	if !match {
		if err := s.limiter.RecordFailure(ctx, input.Username); err != nil {
			return nil, err
		}
		return nil, apperror.ErrInvalidPassword
	}

	if err := s.limiter.Clear(ctx, input.Username); err != nil {
		return nil, err
	}

	info := dto.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	if user.Role == model.RoleStudent {
		student, err := s.repo.FindStudentByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if student != nil {
			info.StudentID = &student.ID
			info.Name = student.Name
			info.Email = student.Email
		}
	}

	token, err := s.generateToken(info)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    info,
	}, nil
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) error {
	if err := ensureStudentUnique(ctx, s.repo, input.Username, input.Email); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: input.Username,
		Password: string(hashed),
		Role:     model.RoleStudent,
	}

	student := &model.Student{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   normalizeOptional(input.Phone),
		Address: normalizeOptional(input.Address),
	}

	return s.repo.CreateWithStudent(ctx, user, student)
}

func (s *authService) generateToken(info dto.UserInfo) (string, error) {
	now := time.Now()

	claims := Claims{
		Username:  info.Username,
		Role:      info.Role,
		StudentID: info.StudentID,
		Name:      info.Name,
		Email:     info.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", info.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ensureStudentUnique rejects a username or email already taken. Shared by
// registration and the admin roster path, which follow the same discipline.
func ensureStudentUnique(ctx context.Context, repo repository.UserRepository, username, email string) error {
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return apperror.ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := repo.FindStudentByEmail(ctx, email); err == nil {
		return apperror.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

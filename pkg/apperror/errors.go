package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidToken      = errors.New("Invalid token")
	ErrNoToken           = errors.New("No token provided")
	ErrForbidden         = errors.New("Access denied")
	ErrInternal          = errors.New("Server error")
	ErrRateLimitExceeded = errors.New("Too many login attempts")

	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidPassword    = errors.New("Invalid password")
	ErrDuplicateUsername  = errors.New("Username already exists")
	ErrDuplicateEmail     = errors.New("Email already exists")

	ErrDuplicateISBN   = errors.New("ISBN already exists")
	ErrBookNotFound    = errors.New("Book not found")
	ErrBookUnavailable = errors.New("Book is not available")
	ErrBookInUse       = errors.New("Cannot delete book as it is currently issued to students")
	ErrInvalidQuantity = errors.New("Cannot reduce quantity below number of books currently issued")

	ErrStudentNotFound = errors.New("Student not found")
	ErrStudentHasLoans = errors.New("Cannot delete student as they have books issued")
	ErrStudentsOnly    = errors.New("Only students can request books")

	ErrTransactionNotFound = errors.New("Transaction not found")
	ErrAlreadyReturned     = errors.New("Book is already returned")
	ErrNotIssued           = errors.New("Can only extend issued books")
	ErrAlreadyHeld         = errors.New("You already have this book issued")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps domain errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrNoToken),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrStudentsOnly):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateISBN),
		errors.Is(err, ErrBookUnavailable),
		errors.Is(err, ErrBookInUse),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrStudentHasLoans),
		errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrNotIssued),
		errors.Is(err, ErrAlreadyHeld):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

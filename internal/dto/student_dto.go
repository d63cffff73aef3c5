package dto

import "time"

type CreateStudentRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=6"`
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// UpdateStudentRequest updates the profile row; username and password are
// optional and apply to the paired login identity in the same write.
type UpdateStudentRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type StudentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStudentResponse struct {
	Message   string `json:"message"`
	StudentID uint   `json:"studentId"`
}

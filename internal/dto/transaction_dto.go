package dto

import "time"

type IssueRequest struct {
	BookID    uint   `json:"bookId" binding:"required"`
	StudentID uint   `json:"studentId" binding:"required"`
	DueDate   string `json:"dueDate" binding:"required"`
}

type ReturnRequest struct {
	TransactionID uint `json:"transactionId" binding:"required"`
}

type RequestBookRequest struct {
	BookID uint `json:"bookId" binding:"required"`
}

// TransactionResponse is the admin listing row, joined with book and student.
type TransactionResponse struct {
	ID          uint       `json:"id"`
	BookID      uint       `json:"book_id"`
	StudentID   uint       `json:"student_id"`
	IssueDate   time.Time  `json:"issue_date"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Status      string     `json:"status"`
	BookTitle   string     `json:"book_title"`
	StudentName string     `json:"student_name"`
}

// LoanResponse is a student's own loan row, joined with book details.
type LoanResponse struct {
	ID         uint       `json:"id"`
	BookID     uint       `json:"book_id"`
	StudentID  uint       `json:"student_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Category   string     `json:"category"`
}

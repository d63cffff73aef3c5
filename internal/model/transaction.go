package model

import "time"

const (
	StatusIssued   = "issued"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

// Transaction is a loan record. It is never deleted; a return closes it and
// the overdue sweep relabels past-due outstanding loans. An overdue loan is
// still outstanding and can be returned or extended.
type Transaction struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"not null;index" json:"book_id"`
	Book       Book       `json:"-"`
	StudentID  uint       `gorm:"not null;index" json:"student_id"`
	Student    Student    `json:"-"`
	IssueDate  time.Time  `gorm:"autoCreateTime" json:"issue_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `gorm:"size:10;not null;default:issued" json:"status"`
}

// Outstanding reports whether the loan still holds a copy of the book.
func (t *Transaction) Outstanding() bool {
	return t.Status == StatusIssued || t.Status == StatusOverdue
}

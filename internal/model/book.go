package model

import "time"

// Book tracks both the owned stock (Quantity) and the live availability
// counter. 0 <= AvailableQuantity <= Quantity must hold after every
// issue/return/update.
type Book struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"size:255;not null" json:"title"`
	Author            string    `gorm:"size:100;not null" json:"author"`
	Category          string    `gorm:"size:50;not null" json:"category"`
	ISBN              *string   `gorm:"size:20;uniqueIndex" json:"isbn,omitempty"`
	Quantity          int       `gorm:"not null;default:1" json:"quantity"`
	AvailableQuantity int       `gorm:"not null;default:1" json:"available_quantity"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

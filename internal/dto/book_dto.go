package dto

type BookFilter struct {
	Query string `form:"query"`
}

type CreateBookRequest struct {
	Title    string  `json:"title" binding:"required,max=255"`
	Author   string  `json:"author" binding:"required,max=100"`
	Category string  `json:"category" binding:"required,max=50"`
	ISBN     *string `json:"isbn" binding:"omitempty,max=20"`
	Quantity int     `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateBookRequest struct {
	Title    string  `json:"title" binding:"required,max=255"`
	Author   string  `json:"author" binding:"required,max=100"`
	Category string  `json:"category" binding:"required,max=50"`
	ISBN     *string `json:"isbn" binding:"omitempty,max=20"`
	Quantity int     `json:"quantity" binding:"omitempty,min=1"`
}

type CreateBookResponse struct {
	Message string `json:"message"`
	BookID  uint   `json:"bookId"`
}

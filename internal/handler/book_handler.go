package handler

import (
	"net/http"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/service"
	"anoa.com/librarydesk/pkg/response"
	"anoa.com/librarydesk/pkg/validator"
	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	service service.BookService
}

func NewBookHandler(service service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List returns the catalog; the optional query parameter filters by
// case-insensitive substring over title, author and category.
func (h *BookHandler) List(c *gin.Context) {
	var filter dto.BookFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	books, err := h.service.List(c.Request.Context(), filter.Query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	bookID, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateBookResponse{
		Message: "Book added successfully",
		BookID:  bookID,
	})
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Book updated successfully")
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Book deleted successfully")
}

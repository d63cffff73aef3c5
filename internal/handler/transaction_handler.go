package handler

import (
	"net/http"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/middleware"
	"anoa.com/librarydesk/internal/model"
	"anoa.com/librarydesk/internal/service"
	"anoa.com/librarydesk/pkg/apperror"
	"anoa.com/librarydesk/pkg/response"
	"anoa.com/librarydesk/pkg/validator"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	service service.LendingService
}

func NewTransactionHandler(service service.LendingService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

func (h *TransactionHandler) List(c *gin.Context) {
	trxs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, trxs)
}

func (h *TransactionHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.Issue(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Book issued successfully")
}

func (h *TransactionHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.Return(c.Request.Context(), req.TransactionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Book returned successfully")
}

// Request is the student-initiated advisory path; nothing is mutated on
// success.
func (h *TransactionHandler) Request(c *gin.Context) {
	claims, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	if claims.Role != model.RoleStudent {
		response.Error(c, apperror.ErrStudentsOnly)
		return
	}

	var req dto.RequestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if claims.StudentID == nil {
		response.BadRequest(c, "Book ID is required")
		return
	}

	if err := h.service.Request(c.Request.Context(), *claims.StudentID, req.BookID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated,
		"Book request submitted successfully. Please contact the librarian to complete the issue process.")
}

func (h *TransactionHandler) UpdateOverdue(c *gin.Context) {
	if err := h.service.SweepOverdue(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Overdue status updated successfully")
}

func (h *TransactionHandler) Extend(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Extend(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Due date extended successfully")
}

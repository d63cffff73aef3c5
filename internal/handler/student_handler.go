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

type StudentHandler struct {
	service service.StudentService
}

func NewStudentHandler(service service.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// Get is open to the administrator and to the student the record belongs to.
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !h.ownerOrAdmin(c, id) {
		return
	}

	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	studentID, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateStudentResponse{
		Message:   "Student added successfully",
		StudentID: studentID,
	})
}

func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Student updated successfully")
}

func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Student deleted successfully")
}

// ListLoans returns the student's transactions joined with book details,
// ownership-checked like Get.
func (h *StudentHandler) ListLoans(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !h.ownerOrAdmin(c, id) {
		return
	}

	loans, err := h.service.ListLoans(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, loans)
}

func (h *StudentHandler) ownerOrAdmin(c *gin.Context, studentID uint) bool {
	claims, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return false
	}

	if claims.Role == model.RoleAdmin {
		return true
	}
	if claims.StudentID != nil && *claims.StudentID == studentID {
		return true
	}

	response.Error(c, apperror.ErrForbidden)
	return false
}

package handler

import (
	"net/http"

	"anoa.com/librarydesk/internal/dto"
	"anoa.com/librarydesk/internal/service"
	"anoa.com/librarydesk/pkg/response"
	"anoa.com/librarydesk/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.authService.Register(c.Request.Context(), input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Student registered successfully")
}

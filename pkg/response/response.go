package response

import (
	"log"
	"net/http"

	"anoa.com/librarydesk/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// Message writes the uniform success body used across the API.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error writes the uniform error body. Internal errors are logged and
// surfaced without detail.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, gin.H{"message": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"message": err.Error()})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

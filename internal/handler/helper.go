package handler

import (
	"strconv"

	"anoa.com/librarydesk/pkg/response"
	"github.com/gin-gonic/gin"
)

// idParam parses the :id path segment; on failure it writes a 400 and
// reports false.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

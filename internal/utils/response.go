package utils

import (
	"github.com/gin-gonic/gin"
)

// SendErrorResponse sends a standardized error response
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// SendPNG writes an image response that must not be cached by intermediaries
func SendPNG(c *gin.Context, statusCode int, filename string, data []byte) {
	c.Header("Cache-Control", "no-store")
	if filename != "" {
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	}
	c.Data(statusCode, "image/png", data)
}

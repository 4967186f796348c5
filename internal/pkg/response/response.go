package response

import (
	"github.com/gin-gonic/gin"
)

// Error writes the pre-stream failure shape expected by relay clients.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Result writes the refresh-style {success, message} shape.
func Result(c *gin.Context, status int, success bool, message string) {
	c.JSON(status, gin.H{"success": success, "message": message})
}

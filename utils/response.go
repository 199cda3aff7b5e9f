package utils

import "github.com/gin-gonic/gin"

// Summary is the body every trigger and management endpoint answers with.
type Summary struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Summary{Success: false, Message: message})
}

func RespondWithSummary(c *gin.Context, code int, message string) {
	c.JSON(code, Summary{Success: true, Message: message})
}

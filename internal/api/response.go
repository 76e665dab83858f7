package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }
func Unavailable(c *gin.Context, msg string) {
	Error(c, http.StatusServiceUnavailable, msg)
}
func TooLarge(c *gin.Context, msg string) { Error(c, http.StatusRequestEntityTooLarge, msg) }

// Invalid 返回 400 以及逐条的 schema 错误。
func Invalid(c *gin.Context, details []string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resume document", "details": details})
}

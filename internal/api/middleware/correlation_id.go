// Package middleware 提供请求关联 ID 与结构化访问日志。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderCorrelationID 是请求与响应中携带关联 ID 的头。
const HeaderCorrelationID = "X-Correlation-ID"

const correlationIDKey = "correlationID"

// maxCorrelationIDLen 限制客户端传入的关联 ID 长度，超出时重新生成。
const maxCorrelationIDLen = 64

// CorrelationID 确保每个请求都带有关联 ID，并回写到响应头。
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderCorrelationID)
		if id == "" || len(id) > maxCorrelationIDLen {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(HeaderCorrelationID, id)

		c.Next()
	}
}

// GetCorrelationID 从上下文中取出关联 ID。
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

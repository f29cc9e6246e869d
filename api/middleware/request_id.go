package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/listny/listny-backend/api/controller"
)

const headerRequestID = "X-Request-ID"

// RequestID 沿用调用方的 X-Request-ID，缺失时生成
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(controller.RequestIDKey, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(controller.RequestIDKey)
}

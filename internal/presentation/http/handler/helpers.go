package handler

import (
	"github.com/gin-gonic/gin"
)

// GetRequestID extracts the request ID set by the logger middleware
func GetRequestID(c *gin.Context) string {
	id, exists := c.Get("request_id")
	if !exists {
		return "-"
	}
	s, ok := id.(string)
	if !ok || s == "" {
		return "-"
	}
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

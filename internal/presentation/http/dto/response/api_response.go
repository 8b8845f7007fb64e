package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-relay/pkg/apperror"
)

// DeliveryResponse is the body returned when a receipt was delivered.
type DeliveryResponse struct {
	Success bool   `json:"success"`
	Sid     string `json:"sid"`
	FileURL string `json:"fileUrl"`
}

// ErrorResponse is the body returned on any failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Delivered sends a 200 with the notification id and published URL.
func Delivered(c *gin.Context, sid, fileURL string) {
	c.JSON(http.StatusOK, DeliveryResponse{
		Success: true,
		Sid:     sid,
		FileURL: fileURL,
	})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	ErrorWithCode(c, appErr.Code, appErr.Message)
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// AbortWithCode writes the error body and stops the handler chain.
func AbortWithCode(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, message)
}

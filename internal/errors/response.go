package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable code (see codes.go)
	Message string `json:"message"` // human-readable message
}

// RespondWithError writes a standard error response
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcuts for the common responses

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// MethodNotAllowed rejects a delete blocked by a referential dependency.
// The body carries only the sentence clients display verbatim.
func MethodNotAllowed(c *gin.Context, message string) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": message})
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An unexpected error occurred. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// StatusForCode maps an error code onto its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case AuthEmailAlreadyExists, ResourceAlreadyExists, ResourceConflict:
		return http.StatusConflict
	case CollectionNotEmpty, ProductInOrder:
		return http.StatusMethodNotAllowed
	case ResourceNotFound, CollectionNotFound, ProductNotFound, ReviewNotFound,
		CartNotFound, CartItemNotFound, OrderNotFound, CustomerNotFound:
		return http.StatusNotFound
	case ValidationInvalidInput, ValidationInvalidID, ValidationInvalidFormat,
		ValidationInvalidRange, ValidationRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError carries per-field validation failures
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}

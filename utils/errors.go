package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError is a handler-level rejection carrying the HTTP status it should be
// reported with. Message is display-ready.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BadRequestError builds a 400 rejection.
func BadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NotFoundError builds a 404 rejection.
func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

// InternalError builds a 500 wrapping the underlying failure.
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// RespondAppError writes the rejection using the standard envelope. 5xx codes
// go through InternalServerError so the correlation id is attached.
func RespondAppError(c *gin.Context, appErr *AppError) {
	if appErr.Code >= http.StatusInternalServerError {
		InternalServerError(c, appErr.Message, appErr.Err)
		return
	}
	Error(c, appErr.Code, appErr.Message, nil)
}

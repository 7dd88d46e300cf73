package core

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeUpstream    ErrorCode = "OPENAI_API_ERROR"
	CodeGeneration  ErrorCode = "QUESTION_GENERATION_ERROR"
	CodeContent     ErrorCode = "CONTENT_PROCESSING_ERROR"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeRateLimited ErrorCode = "RATE_LIMITED"
	CodeInternal    ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is an error that knows how it is shown to an HTTP client
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  statusOf(code),
	}
}

func WrapError(err error, code ErrorCode, message string) *AppError {
	e := NewError(code, message)
	e.Err = err
	return e
}

// AsAppError finds an AppError in the chain or wraps err as an internal one
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return WrapError(err, CodeInternal, "internal server error")
}

func statusOf(code ErrorCode) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusServiceUnavailable
	case CodeGeneration:
		return http.StatusBadGateway
	case CodeContent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeAPI          = "API_ERROR"
	ErrCodeTransport    = "TRANSPORT_ERROR"
	ErrCodeDecode       = "DECODE_ERROR"
	ErrCodeMissingToken = "MISSING_TOKEN"
	ErrCodeStorage      = "STORAGE_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

// APIError carries the status code the backend answered with.
func APIError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeAPI, message, statusCode)
}

// TransportError covers failures before any HTTP status exists:
// dial errors, cancelled contexts, connection resets.
func TransportError(message string) *AppError {
	return NewAppError(ErrCodeTransport, message, 0)
}

func DecodeError(message string) *AppError {
	return NewAppError(ErrCodeDecode, message, 0)
}

// MissingTokenError marks a nominally successful auth response that
// carried no token. Partial success is not a valid end state.
func MissingTokenError(message string) *AppError {
	return NewAppError(ErrCodeMissingToken, message, 0)
}

func StorageError(message string) *AppError {
	return NewAppError(ErrCodeStorage, message, 0)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}

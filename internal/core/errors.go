// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// AppError is an operational error that maps directly onto an HTTP
// response. Anything else surfacing from a handler becomes a 500.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
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

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

// ConflictError reports a duplicate-review style violation. The
// original API answered these with 403 rather than 409; that status
// is preserved here.
func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusForbidden, "CONFLICT")
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"your token expired, please login again",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid token, please login again",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrGone           = errors.New("resource gone")
)

// Authentication failure sentinels. Middleware and handlers branch on these
// with errors.Is instead of parsing messages. Each wraps ErrUnauthorized or
// ErrForbidden, so matching against the generic sentinels still works.
var (
	ErrTokenMissing    = fmt.Errorf("%w: missing token", ErrUnauthorized)
	ErrTokenInvalid    = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenExpired    = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenRevoked    = fmt.Errorf("%w: token revoked", ErrUnauthorized)
	ErrAccountInactive = fmt.Errorf("%w: account inactive", ErrForbidden)
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Gone creates a 410 error.
func Gone(message string) *AppError {
	return &AppError{
		Code:    "GONE",
		Message: message,
		Status:  http.StatusGone,
		Err:     ErrGone,
	}
}

// TokenMissing creates a 401 error for a request that carries no token.
func TokenMissing() *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: "missing or malformed authorization header",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenMissing,
	}
}

// TokenInvalid creates a 401 error for a token that fails verification.
func TokenInvalid() *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: "invalid token",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenInvalid,
	}
}

// TokenExpired creates a 401 error with a code clients branch on to trigger
// a refresh.
func TokenExpired() *AppError {
	return &AppError{
		Code:    "TOKEN_EXPIRED",
		Message: "token has expired",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenExpired,
	}
}

// TokenRevoked creates a 401 error for a blacklisted or rotated token.
func TokenRevoked() *AppError {
	return &AppError{
		Code:    "TOKEN_REVOKED",
		Message: "token has been revoked",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenRevoked,
	}
}

// AccountInactive creates a 403 error for a suspended account.
func AccountInactive(message string) *AppError {
	return &AppError{
		Code:    "ACCOUNT_INACTIVE",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrAccountInactive,
	}
}

// Unavailable creates a 503 error for a backing dependency outage.
func Unavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrGone):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrForeignKey   = errors.New("foreign key violation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

const (
	MsgNotLoggedIn        = "You are not logged in! Please log in to get access."
	MsgInvalidToken       = "Invalid token. Please log in again!"
	MsgUserNoLongerExists = "The user belonging to this token no longer exists."
	MsgAccountDeactivated = "This user account has been deactivated."
	MsgNoPermission       = "You do not have permission to perform this action"
	MsgBadCredentials     = "Incorrect email or password"
	MsgGeneric            = "Something went wrong"
)

// AppError carries an HTTP status and a client-facing message. Operational
// errors are expected outcomes whose message is safe to return verbatim.
type AppError struct {
	Err         error
	Message     string
	StatusCode  int
	Code        string
	Operational bool
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

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:         err,
		Message:     message,
		StatusCode:  status,
		Code:        code,
		Operational: true,
	}
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, CodeValidation)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, CodeNotFound)
}

// ConflictError answers 400 to stay compatible with existing clients that
// expect "Email already in use" as a bad request.
func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusBadRequest, CodeConflict)
}

func UnauthorizedError(message, code string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, code)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, MsgInvalidToken, http.StatusUnauthorized, CodeTokenInvalid)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, MsgInvalidToken, http.StatusUnauthorized, CodeTokenExpired)
}

// InternalError wraps an unexpected failure. The message is logged, never sent.
func InternalError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Normalize resolves any error into an AppError. Bare sentinels from the
// storage and token layers map onto their operational kinds.
func Normalize(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		if appErr.StatusCode == 0 {
			appErr.StatusCode = http.StatusInternalServerError
		}
		return appErr
	}

	switch {
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrNotFound):
		return NotFoundError("Resource not found")
	case errors.Is(err, ErrDuplicateKey):
		return ConflictError("Resource already exists")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError(MsgNotLoggedIn, CodeUnauthorized)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError(MsgNoPermission)
	case errors.Is(err, ErrInvalidInput):
		return ValidationError("Invalid input")
	}

	return InternalError(err, "unexpected error")
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeNotFound            ErrCode = "NOT_FOUND"
	ErrCodeRateLimited         ErrCode = "RATE_LIMITED"
	ErrCodeUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamError       ErrCode = "UPSTREAM_ERROR"
	ErrCodeInternal            ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest          ErrCode = "BAD_REQUEST"
	ErrCodeForbidden           ErrCode = "FORBIDDEN"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	// Status is the upstream HTTP status for ErrCodeUpstreamError.
	Status int
	// RetryAt is when the upstream quota resets, zero if unknown.
	RetryAt time.Time
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error for a GitHub user
func NewNotFoundError(username string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("GitHub user '%s' not found", username),
	}
}

// NewRateLimitedError creates a new rate limited error. resetAt may be zero.
func NewRateLimitedError(resetAt time.Time) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "GitHub API rate limit exceeded",
		RetryAt: resetAt,
	}
}

// NewUpstreamUnavailableError creates an error for upstream 5xx and transport failures
func NewUpstreamUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: "GitHub API upstream error",
		Err:     err,
	}
}

// NewUpstreamError creates an error for any other non-success upstream status
func NewUpstreamError(status int, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamError,
		Message: fmt.Sprintf("GitHub API returned status %d", status),
		Status:  status,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// As extracts the *AppError from err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeRateLimited)
}

// IsUpstreamUnavailable checks if the error is an upstream unavailable error
func IsUpstreamUnavailable(err error) bool {
	return hasCode(err, ErrCodeUpstreamUnavailable)
}

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool {
	return hasCode(err, ErrCodeBadRequest)
}

// HTTPStatus maps an error to the status code returned to API callers.
// Upstream errors pass the upstream status through.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrCodeUpstreamError:
		if appErr.Status >= 400 && appErr.Status <= 599 {
			return appErr.Status
		}
		return http.StatusBadGateway
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

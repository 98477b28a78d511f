package pawmart

import (
	"errors"

	"github.com/pawmart/pawmart-go/internal/types"
)

// Sentinel errors, shared with the internal packages so errors.Is works
// across the module boundary.
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = types.ErrNotAuthenticated

	// ErrInvalidCredentials is returned when login is rejected
	ErrInvalidCredentials = types.ErrInvalidCredentials

	// ErrSessionExpired is returned when the session has expired
	ErrSessionExpired = types.ErrSessionExpired

	// ErrTokenMalformed is returned when a stored token cannot be decoded
	ErrTokenMalformed = types.ErrTokenMalformed

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = types.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = types.ErrTimeout

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = types.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = types.ErrServerError
)

// Error represents a structured API error
type Error = types.Error

// NewError creates a new API error
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// IsAuthError checks if an error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrTokenMalformed)
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}

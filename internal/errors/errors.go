package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeStorage          = "STORAGE_ERROR"
	ErrCodeInvalidState     = "INVALID_STATE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code      string // Error code (e.g., "NOT_FOUND", "STORAGE_ERROR")
	Message   string // Human-readable error message
	Status    int    // HTTP status code
	Retryable bool   // Whether the caller may retry the same operation
	Err       error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewNotAuthenticatedError creates a new NOT_AUTHENTICATED error
func NewNotAuthenticatedError() *AppError {
	return &AppError{
		Code:    ErrCodeNotAuthenticated,
		Message: "not authenticated",
		Status:  401,
	}
}

// NewStorageError wraps a transient persistence failure. The operation that
// produced it applied no state change and may be retried as-is.
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:      ErrCodeStorage,
		Message:   "storage operation failed, try again",
		Status:    503,
		Retryable: true,
		Err:       err,
	}
}

// NewInvalidStateError creates a new INVALID_STATE error for an operation
// that is not legal in the session's current state.
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: message,
		Status:  409,
	}
}

// IsRetryable reports whether err is an AppError the caller may retry.
func IsRetryable(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Retryable
	}
	return false
}

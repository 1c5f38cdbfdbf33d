package apperrors

import "fmt"

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logging. Repositories use it for infrastructure
// failures that carry no business meaning.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that also matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

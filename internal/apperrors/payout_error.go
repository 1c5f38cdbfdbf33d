package apperrors

import (
	"errors"
	"fmt"
)

// ExternalPayoutError is returned when the external payment rail rejects or
// fails a payout submission. Retryable failures (timeouts, 5xx) are retried
// with backoff by the payout manager; terminal ones fail the request at once.
type ExternalPayoutError struct {
	Retryable bool
	Message   string
	Err       error
}

func (e *ExternalPayoutError) Error() string {
	kind := "terminal"
	if e.Retryable {
		kind = "retryable"
	}
	if e.Err != nil {
		return fmt.Sprintf("external payout error (%s): %s: %v", kind, e.Message, e.Err)
	}
	return fmt.Sprintf("external payout error (%s): %s", kind, e.Message)
}

func (e *ExternalPayoutError) Unwrap() error {
	return e.Err
}

// NewExternalPayoutError creates a new ExternalPayoutError.
func NewExternalPayoutError(retryable bool, message string, err error) *ExternalPayoutError {
	return &ExternalPayoutError{Retryable: retryable, Message: message, Err: err}
}

// IsRetryablePayoutError reports whether err is an ExternalPayoutError worth
// retrying.
func IsRetryablePayoutError(err error) bool {
	var pe *ExternalPayoutError
	return errors.As(err, &pe) && pe.Retryable
}

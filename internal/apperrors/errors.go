package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated principal's role is not
// authorized for the requested operation.
var ErrForbidden = errors.New("operation not permitted for role")

// ErrUnauthorized indicates a missing or invalid authentication principal.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition indicates a release lifecycle rule violation.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// ErrEditLocked indicates a mutation attempted on a release outside DRAFT.
var ErrEditLocked = errors.New("release is locked for direct edits")

// ErrInsufficientFunds indicates a debit that would breach the account's
// balance floor.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates an optimistic-concurrency loss; the caller must
// re-read current state before retrying.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrMissingConfiguration indicates that no active split configuration
// covers the release being ingested.
var ErrMissingConfiguration = errors.New("no active split configuration")

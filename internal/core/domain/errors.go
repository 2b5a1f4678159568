package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("request not found")
	ErrIncompleteCuration     = errors.New("curation incomplete: public title and summary are required")
	ErrMissingRejectionReason = errors.New("a rejection reason is required for help requests")
	ErrConcurrentModification = errors.New("request was modified concurrently")
	ErrInvalidTransition      = errors.New("status transition not allowed")

	// ErrAuthorization is a self-service phone mismatch.
	ErrAuthorization = errors.New("phone number does not match this request")
	// ErrUnauthorized is an admin failing the curator capability check.
	ErrUnauthorized = errors.New("actor is not an authorized curator")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError is a shorthand used by validators.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Package errs defines the error taxonomy shared by the Goaly domain
// packages. Every rejected operation carries a specific human-readable
// reason; callers branch on the error kind, the UI shows the reason as-is.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a profile is loaded for an unknown user.
var ErrNotFound = errors.New("profile not found")

// ValidationError reports malformed input: username shape, bio length,
// link format, tag overflow.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// EntitlementError reports an action requested without the required tier,
// completion, or cooldown state.
type EntitlementError struct {
	Reason string
}

func (e EntitlementError) Error() string {
	return e.Reason
}

// PersistenceError wraps a failed store or queue write. It is never retried
// here; the caller decides whether to retry the whole operation.
type PersistenceError struct {
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %v", e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

func Validation(reason string) error {
	return ValidationError{Reason: reason}
}

func Entitlement(reason string) error {
	return EntitlementError{Reason: reason}
}

func Persistence(err error) error {
	return PersistenceError{Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsEntitlement reports whether err is an EntitlementError.
func IsEntitlement(err error) bool {
	var ee EntitlementError
	return errors.As(err, &ee)
}

// Package errs defines the error taxonomy shared by the governance engine.
//
// Every public operation returns one of these kinds, wrapped with context via
// fmt.Errorf("...: %w", ...). Callers discriminate with errors.Is; the
// enclosing application translates kinds into user-facing behavior. Raw store
// errors never cross the engine boundary: the store layer maps them onto
// ErrConflict, ErrNotFound, or ErrStore.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a tag, group, or tenant row is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation on a name or association.
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates a mutation on a system-protected tag or a
	// cross-tenant access attempt.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed input: a bad rule definition, a
	// self-referential merge or parent, or a missing required field.
	ErrValidation = errors.New("validation error")

	// ErrStore indicates a store-level failure (connection loss, deadlock).
	// The engine performs no retries; callers may.
	ErrStore = errors.New("store error")
)

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// Conflict wraps ErrConflict with a formatted message.
func Conflict(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

// Forbidden wraps ErrForbidden with a formatted message.
func Forbidden(format string, args ...interface{}) error {
	return wrap(ErrForbidden, format, args...)
}

// Validation wraps ErrValidation with a formatted message.
func Validation(format string, args ...interface{}) error {
	return wrap(ErrValidation, format, args...)
}

// Store wraps a store-level failure, preserving the cause in the message.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

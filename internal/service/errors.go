package service

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation requires a caller
// identity and none is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when a user tries to modify another user's
// resource. Never retried: ownership violations are not transient.
var ErrForbidden = errors.New("forbidden")

// ErrUnavailable marks a store failure or timeout. Callers may retry with
// backoff; the services themselves never do.
var ErrUnavailable = errors.New("store unavailable")

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// storeErr wraps unexpected repository failures with ErrUnavailable so
// handlers can map them to 503. Known sentinels pass through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

package services

import (
	"errors"
	"fmt"
)

// ErrNoRouteFound is returned when the routing provider found no route
var ErrNoRouteFound = errors.New("no route found")

// ReasonRequired is the ValidationError reason for a missing field
const ReasonRequired = "required"

// ValidationError reports missing or invalid request input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CollaboratorError wraps a failure of the external routing provider. The wrapped
// error carries provider diagnostics and must not be shown to API callers.
type CollaboratorError struct {
	Err error
}

func (e *CollaboratorError) Error() string {
	return "routing provider failed: " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Session Errors.

	// ErrSessionActive indicates a session is already running.
	// A session must be stopped before another one can start.
	ErrSessionActive = errors.New("session already active")

	// ErrServiceNotRunning indicates the network service has no active session.
	ErrServiceNotRunning = errors.New("service not running")

	// ErrPermissionDenied indicates notification authorisation was refused.
	// Warnings are silently dropped; this never blocks the service.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrRedundantTransition indicates an event that does not apply to
	// the current coordinator state. It is treated as a no-op.
	ErrRedundantTransition = errors.New("redundant transition")

	// Subscription Errors.

	// ErrSubscriptionClosed indicates the lifecycle source is closed.
	ErrSubscriptionClosed = errors.New("subscription closed")

	// ErrAlreadySubscribed indicates a subscriber tried to register twice.
	ErrAlreadySubscribed = errors.New("already subscribed")

	// File Errors.

	// ErrPathOutsideRoot indicates a request path resolves outside the upload root.
	ErrPathOutsideRoot = errors.New("path outside upload root")

	// ErrHiddenEntry indicates a request touched a hidden entry while hidden
	// entries are not allowed.
	ErrHiddenEntry = errors.New("hidden entry not allowed")
)

// StartError describes why the network service could not start.
// Reason is the user-facing text carried into StatusReport.
type StartError struct {
	Reason string
	Err    error
}

// NewStartError wraps err with a user-facing reason.
func NewStartError(reason string, err error) *StartError {
	return &StartError{Reason: reason, Err: err}
}

// Error implements the error interface.
func (e *StartError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *StartError) Unwrap() error {
	return e.Err
}

// StartFailureReason extracts the user-facing reason from a start error.
// Falls back to the error text when err is not a StartError.
func StartFailureReason(err error) string {
	if err == nil {
		return ""
	}
	var se *StartError
	if errors.As(err, &se) {
		return se.Reason
	}
	return err.Error()
}

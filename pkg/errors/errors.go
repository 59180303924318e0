// Package errors provides structured error handling for the watch library.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// UsageError reports a structurally broken build function: an observation
// call outside an active build, a duplicate watch of the same target, or a
// selector producing a listenable where a plain value was expected.
//
// Usage errors are raised via panic and are never caught by the library
// itself, so they surface immediately in tests and during development.
type UsageError struct {
	// Op is the operation that was misused (e.g. "watch.WatchValue").
	Op string
	// Reason describes what the caller did wrong.
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AsyncError wraps a failure delivered by an asynchronous source (a stream
// emission or a future resolution). Async errors are captured as error
// snapshots at the adapter boundary and reported to the global handler; they
// are re-raised only when the caller reads the failed value without having
// supplied an error handler.
type AsyncError struct {
	// Op is the operation that observed the failure (e.g. "watch.WatchStream").
	Op string
	// Source identifies the failing source kind ("stream", "future", "readiness").
	Source string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AsyncError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Source, e.Err)
}

func (e *AsyncError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a readiness wait did not settle within its
// configured timeout. It is distinct from other async errors so callers can
// tell "still waiting" apart from "a dependency failed".
type TimeoutError struct {
	// Op is the waiting operation (e.g. "locator.AllReady").
	Op string
	// Timeout is the configured wait duration.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: not ready after %s", e.Op, e.Timeout)
}

// IsTimeout reports whether err is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return stderrors.As(err, &t)
}

// Handler receives async errors reported by the watch library.
type Handler interface {
	// HandleAsync is called when an asynchronous source delivers an error.
	HandleAsync(err *AsyncError)
}

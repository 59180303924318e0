package notify

import "fmt"

// ConnectionState describes how far along an asynchronous source is.
type ConnectionState int

const (
	// StateNone means no source is being observed.
	StateNone ConnectionState = iota
	// StateWaiting means the source is connected but has produced nothing yet.
	StateWaiting
	// StateActive means the source has produced at least one value and may
	// produce more (streams).
	StateActive
	// StateDone means the source has terminated (futures, closed streams).
	StateDone
)

func (s ConnectionState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateDone:
		return "done"
	default:
		return "none"
	}
}

// Snapshot is an immutable view of an asynchronous source at one point in
// time: its connection state plus either data or an error.
type Snapshot[T any] struct {
	// State is the source's connection state.
	State ConnectionState
	// Data is the latest value. Only meaningful when HasData reports true.
	Data T
	// Err is the latest error, or nil.
	Err error

	hasData bool
}

// Waiting returns a snapshot of a connected source that has not produced a
// value yet, carrying a placeholder.
func Waiting[T any](placeholder T) Snapshot[T] {
	return Snapshot[T]{State: StateWaiting, Data: placeholder, hasData: true}
}

// Active returns a snapshot of a live source that just produced data.
func Active[T any](data T) Snapshot[T] {
	return Snapshot[T]{State: StateActive, Data: data, hasData: true}
}

// Done returns a snapshot of a terminated source with its final value.
func Done[T any](data T) Snapshot[T] {
	return Snapshot[T]{State: StateDone, Data: data, hasData: true}
}

// ActiveError returns a snapshot of a live source that just produced an error.
func ActiveError[T any](err error) Snapshot[T] {
	return Snapshot[T]{State: StateActive, Err: err}
}

// DoneError returns a snapshot of a terminated source that failed.
func DoneError[T any](err error) Snapshot[T] {
	return Snapshot[T]{State: StateDone, Err: err}
}

// HasData reports whether the snapshot carries a value (including a
// placeholder supplied at subscription time).
func (s Snapshot[T]) HasData() bool {
	return s.hasData
}

// HasError reports whether the snapshot carries an error.
func (s Snapshot[T]) HasError() bool {
	return s.Err != nil
}

// RequireData returns the value, or panics with the captured error if the
// source failed. This is the synchronous re-raise point for sources observed
// without an explicit error handler.
func (s Snapshot[T]) RequireData() T {
	if s.Err != nil {
		panic(s.Err)
	}
	if !s.hasData {
		panic(fmt.Sprintf("notify: snapshot in state %s has no data", s.State))
	}
	return s.Data
}

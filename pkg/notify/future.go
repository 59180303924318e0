package notify

import "sync"

// Future is a one-shot asynchronous result: it is either still pending or
// settled with exactly one value or error. Continuations attached before
// completion run when the future settles, on the completing goroutine;
// continuations attached after completion run synchronously.
//
// Unlike the other sources in this package, a Future may be completed from a
// timer or worker goroutine, so its state is internally synchronized.
type Future[T any] struct {
	mu        sync.Mutex
	done      bool
	value     T
	err       error
	callbacks map[int]func(T, error)
	nextID    int
}

// Completer produces and settles a Future.
type Completer[T any] struct {
	future *Future[T]
}

// NewCompleter creates a completer with a fresh pending future.
func NewCompleter[T any]() *Completer[T] {
	return &Completer[T]{future: &Future[T]{callbacks: make(map[int]func(T, error))}}
}

// Future returns the future controlled by this completer.
func (c *Completer[T]) Future() *Future[T] {
	return c.future
}

// Complete settles the future with a value. Panics if already settled.
func (c *Completer[T]) Complete(value T) {
	if !c.TryComplete(value) {
		panic("notify: Completer completed twice")
	}
}

// CompleteError settles the future with an error. Panics if already settled.
func (c *Completer[T]) CompleteError(err error) {
	if !c.TryCompleteError(err) {
		panic("notify: Completer completed twice")
	}
}

// TryComplete settles the future with a value unless it is already settled.
// Reports whether this call won.
func (c *Completer[T]) TryComplete(value T) bool {
	var zeroErr error
	return c.future.settle(value, zeroErr)
}

// TryCompleteError settles the future with an error unless it is already
// settled. Reports whether this call won.
func (c *Completer[T]) TryCompleteError(err error) bool {
	var zero T
	return c.future.settle(zero, err)
}

// IsCompleted reports whether the future has settled.
func (c *Completer[T]) IsCompleted() bool {
	return c.future.IsDone()
}

func (f *Future[T]) settle(value T, err error) bool {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return false
	}
	f.done = true
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
	return true
}

// Then attaches a continuation. If the future has already settled, fn runs
// synchronously before Then returns. The returned function detaches a
// still-pending continuation; detaching is idempotent and a no-op once the
// continuation has run.
func (f *Future[T]) Then(fn func(value T, err error)) (remove func()) {
	f.mu.Lock()
	if f.done {
		value, err := f.value, f.err
		f.mu.Unlock()
		fn(value, err)
		return func() {}
	}
	id := f.nextID
	f.nextID++
	f.callbacks[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.callbacks, id)
	}
}

// IsDone reports whether the future has settled.
func (f *Future[T]) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Result returns the settled value and error. ok is false while pending.
func (f *Future[T]) Result() (value T, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.done
}

package notify

// Stream is a broadcast sequence of values and errors. Any number of
// subscribers may listen; each emission is delivered to every subscriber,
// in unspecified order.
//
// Stream is NOT thread-safe; confine it to the UI loop.
type Stream[T any] struct {
	subs   map[int]*Subscription[T]
	nextID int
	closed bool
}

// NewStream creates an open stream with no subscribers.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]*Subscription[T])}
}

// Subscription is one listener's attachment to a stream.
type Subscription[T any] struct {
	stream  *Stream[T]
	id      int
	onData  func(T)
	onError func(error)
	onDone  func()
}

// Cancel detaches the subscription. Safe to call more than once, including
// from inside the subscription's own callbacks.
func (s *Subscription[T]) Cancel() {
	if s.stream == nil {
		return
	}
	delete(s.stream.subs, s.id)
	s.stream = nil
}

// Listen attaches a subscriber. onError may be nil. An optional trailing
// onDone callback fires when the stream is closed. Listening on a closed
// stream returns a subscription that will never fire.
func (s *Stream[T]) Listen(onData func(T), onError func(error), onDone ...func()) *Subscription[T] {
	sub := &Subscription[T]{onData: onData, onError: onError}
	if len(onDone) > 0 {
		sub.onDone = onDone[0]
	}
	if s.closed {
		return sub
	}
	sub.stream = s
	sub.id = s.nextID
	s.nextID++
	s.subs[sub.id] = sub
	return sub
}

// Add delivers a value to every subscriber. No-op after Close.
func (s *Stream[T]) Add(value T) {
	if s.closed {
		return
	}
	for _, sub := range s.snapshotSubs() {
		if sub.stream != nil && sub.onData != nil {
			sub.onData(value)
		}
	}
}

// AddError delivers an error to every subscriber. Subscribers without an
// error callback skip the emission. No-op after Close.
func (s *Stream[T]) AddError(err error) {
	if s.closed {
		return
	}
	for _, sub := range s.snapshotSubs() {
		if sub.stream != nil && sub.onError != nil {
			sub.onError(err)
		}
	}
}

// Close terminates the stream: every subscriber's onDone callback fires and
// all subscribers are detached.
func (s *Stream[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	subs := s.snapshotSubs()
	s.subs = nil
	for _, sub := range subs {
		sub.stream = nil
		if sub.onDone != nil {
			sub.onDone()
		}
	}
}

// IsClosed reports whether the stream has been closed.
func (s *Stream[T]) IsClosed() bool {
	return s.closed
}

// SubscriberCount returns the number of attached subscriptions.
func (s *Stream[T]) SubscriberCount() int {
	return len(s.subs)
}

// snapshotSubs copies the subscriber list so callbacks can cancel or listen
// without invalidating the delivery iteration.
func (s *Stream[T]) snapshotSubs() []*Subscription[T] {
	out := make([]*Subscription[T], 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out
}

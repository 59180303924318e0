package notify

// Listenable is a push-based observable that notifies registered callbacks
// on change. The notification itself carries no value; observers read the
// current state from the target after being notified.
type Listenable interface {
	// AddListener registers a change callback and returns a function that
	// removes it. Removal is idempotent.
	AddListener(fn func()) (remove func())
}

// Notifier is the concrete change notifier behind most listenable sources.
// Embed it in a model or controller and call NotifyListeners after mutating
// state.
//
// Notifier is NOT thread-safe; confine it to the UI loop.
type Notifier struct {
	listeners map[int]func()
	nextID    int
}

// NewNotifier creates an empty change notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]func())}
}

// AddListener registers a callback that fires on every NotifyListeners call.
// Returns an unsubscribe function.
func (n *Notifier) AddListener(fn func()) func() {
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		delete(n.listeners, id)
	}
}

// NotifyListeners invokes every registered callback.
func (n *Notifier) NotifyListeners() {
	for _, listener := range n.listeners {
		listener()
	}
}

// ListenerCount returns the number of registered callbacks.
func (n *Notifier) ListenerCount() int {
	return len(n.listeners)
}

// Dispose drops all registered callbacks.
func (n *Notifier) Dispose() {
	n.listeners = nil
}

// Package notify provides the observable source primitives the watch
// library binds to: change notifiers, value notifiers, streams, and
// one-shot futures.
//
// # Listenables
//
// Listenable is the push-based observable contract: register a callback,
// get back a removal function. Notifier is the concrete implementation;
// embed it in controllers and services that want to announce changes:
//
//	type CartModel struct {
//	    notify.Notifier
//	    items []Item
//	}
//
//	func (m *CartModel) AddItem(it Item) {
//	    m.items = append(m.items, it)
//	    m.NotifyListeners()
//	}
//
// ValueNotifier carries a current value and notifies only when the value
// actually changes.
//
// # Asynchronous sources
//
// Stream delivers a sequence of values or errors to subscribers. Completer
// and Future model a one-shot asynchronous result; continuations attached
// after completion run synchronously. Snapshot is the tagged view of an
// asynchronous source's state (waiting, active, done, plus data or error)
// that the watch package hands to build functions.
//
// # Threading
//
// Like the rest of the library, Notifier, ValueNotifier, and Stream assume
// a single-threaded cooperative loop and are not safe for concurrent use.
// Completer is the one exception: completion may arrive from a timer or
// worker goroutine, so its state transitions are internally synchronized.
package notify

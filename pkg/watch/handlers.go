package watch

import (
	"reflect"

	"github.com/go-drift/watch/pkg/notify"
)

// HandlerOption configures a handler registration.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	immediate bool
	once      bool
}

// CallImmediately makes the handler run synchronously with the current
// value at registration time, before any change. Streams and pending
// futures have no current value, so the option is a no-op there.
func CallImmediately() HandlerOption {
	return func(c *handlerConfig) { c.immediate = true }
}

// Once detaches the registration automatically after its first invocation.
func Once() HandlerOption {
	return func(c *handlerConfig) { c.once = true }
}

func applyHandlerOptions(opts []HandlerOption) handlerConfig {
	var cfg handlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// OnChange registers a side-effecting handler on a projection of a
// listenable, without triggering rebuilds. The handler runs whenever the
// projected value changes, and receives a cancel function that detaches the
// registration — callable from inside the handler body.
//
// Handler registrations occupy their own slots and are exempt from the
// duplicate-target rule, so the same target can carry a rebuild-triggering
// watch and any number of handlers at once.
func OnChange[L notify.Listenable, T any](target L, selector func(L) T, handler func(value T, cancel func()), opts ...HandlerOption) {
	w := current("watch.OnChange")
	cfg := applyHandlerOptions(opts)

	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		return
	}
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kindSelector
	e.handlerOnly = true
	e.target = target
	e.lastValue = selector(target)

	gen := e.generation
	cancel := func() { w.release(e) }
	e.dispose = target.AddListener(func() {
		if w.host == nil || e.generation != gen {
			return
		}
		next := selector(target)
		if reflect.DeepEqual(next, e.lastValue) {
			return
		}
		e.lastValue = next
		handler(next, cancel)
		if cfg.once {
			cancel()
		}
	})

	if cfg.immediate {
		handler(e.lastValue.(T), cancel)
		if cfg.once {
			cancel()
		}
	}
}

// OnStream registers a side-effecting handler on a stream. The handler
// receives an Active snapshot per value or error emission plus a cancel
// function, and never triggers a rebuild.
func OnStream[T any](target *notify.Stream[T], handler func(snapshot notify.Snapshot[T], cancel func()), opts ...HandlerOption) {
	w := current("watch.OnStream")
	cfg := applyHandlerOptions(opts)

	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		return
	}
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kindStream
	e.handlerOnly = true
	e.target = target

	gen := e.generation
	cancel := func() { w.release(e) }
	sub := target.Listen(func(value T) {
		if w.host == nil || e.generation != gen {
			return
		}
		handler(notify.Active(value), cancel)
		if cfg.once {
			cancel()
		}
	}, func(err error) {
		if w.host == nil || e.generation != gen {
			return
		}
		handler(notify.ActiveError[T](err), cancel)
		if cfg.once {
			cancel()
		}
	})
	e.dispose = sub.Cancel
}

// OnFuture registers a side-effecting handler on a one-shot future. The
// handler runs once with the Done snapshot when the future settles — or
// synchronously at registration when it already has. Several independent
// OnFuture registrations may share one future, alongside a plain
// WatchFuture of the same future.
func OnFuture[T any](target *notify.Future[T], handler func(snapshot notify.Snapshot[T], cancel func()), opts ...HandlerOption) {
	w := current("watch.OnFuture")

	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		return
	}
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kindFuture
	e.handlerOnly = true
	e.target = target

	gen := e.generation
	cancel := func() { w.release(e) }
	if value, err, done := target.Result(); done {
		if err != nil {
			handler(notify.DoneError[T](err), cancel)
		} else {
			handler(notify.Done(value), cancel)
		}
		return
	}
	e.dispose = target.Then(func(value T, err error) {
		// Completions may arrive off the loop; check liveness under the
		// lock, run the handler outside it.
		w.mu.Lock()
		live := w.host != nil && e.generation == gen
		w.mu.Unlock()
		if !live {
			return
		}
		if err != nil {
			handler(notify.DoneError[T](err), cancel)
		} else {
			handler(notify.Done(value), cancel)
		}
	})
}

package watch

import (
	"reflect"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/locator"
	"github.com/go-drift/watch/pkg/notify"
)

// Watch observes a listenable and marks the host element dirty on every
// notification. Returns the target so a build can observe and read in one
// expression:
//
//	cart := watch.Watch(watch.Get[*CartModel]())
//
// Watching the same target at two call positions in one build is a usage
// error; re-observing a different target at the same position unsubscribes
// the old one and subscribes the new one.
func Watch[L notify.Listenable](target L) L {
	w := current("watch.Watch")
	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		return target
	}
	w.bindListenable("watch.Watch", e, target, kindListenable)
	return target
}

// WatchValue observes a value notifier and returns its current value. The
// notifier itself suppresses no-change notifications, so every delivery
// marks the element dirty.
func WatchValue[T any](target *notify.ValueNotifier[T]) T {
	w := current("watch.WatchValue")
	e := w.nextSlot()
	if e == nil || e.target != any(target) {
		w.bindListenable("watch.WatchValue", e, target, kindListenable)
	}
	return target.Value()
}

// bindListenable creates or rebinds a plain listenable slot.
func (w *Watcher) bindListenable(op string, e *entry, target notify.Listenable, kind entryKind) {
	w.checkDuplicate(op, target, e)
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kind
	e.handlerOnly = false
	e.target = target

	gen := e.generation
	e.dispose = target.AddListener(func() {
		if w.host == nil || e.generation != gen {
			return
		}
		w.host.MarkNeedsBuild()
	})
}

// WatchProperty observes one projection of a listenable: selector derives
// the watched value from the target, and the element is marked dirty only
// when the projected value changes (reflect.DeepEqual), not on every raw
// notification. Returns the current projected value.
//
// The selector must be a pure projection. Returning another listenable is a
// usage error — watch that listenable directly instead.
func WatchProperty[L notify.Listenable, T any](target L, selector func(L) T) T {
	w := current("watch.WatchProperty")
	value := selector(target)
	if _, ok := any(value).(notify.Listenable); ok {
		panic(&errors.UsageError{
			Op:     "watch.WatchProperty",
			Reason: "selector returned a listenable; watch it directly instead",
		})
	}

	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		// Same target at the same position: refresh the comparison base
		// so change detection runs against what this build rendered.
		e.lastValue = value
		return value
	}

	w.checkDuplicate("watch.WatchProperty", target, e)
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kindSelector
	e.handlerOnly = false
	e.target = target
	e.lastValue = value

	gen := e.generation
	e.dispose = target.AddListener(func() {
		if w.host == nil || e.generation != gen {
			return
		}
		next := selector(target)
		if reflect.DeepEqual(next, e.lastValue) {
			return
		}
		e.lastValue = next
		w.host.MarkNeedsBuild()
	})
	return value
}

// StreamOption configures WatchStream.
type StreamOption func(*streamConfig)

type streamConfig struct {
	preserveState bool
}

// PreserveState controls the placeholder used when the observed stream
// identity changes between builds: true (the default) carries the last
// received value of the old stream over as the new waiting value; false
// falls back to the caller-supplied placeholder.
func PreserveState(keep bool) StreamOption {
	return func(c *streamConfig) { c.preserveState = keep }
}

// WatchStream subscribes to a stream on first observation and returns its
// latest snapshot: Waiting with the placeholder before the first emission,
// Active with each value or error, and Done carrying the final state once
// the stream closes. Every emission marks the element dirty. Re-observing
// the same stream returns the stored snapshot without resubscribing;
// observing a different stream cancels the old subscription and starts a
// new one.
func WatchStream[T any](target *notify.Stream[T], placeholder T, opts ...StreamOption) notify.Snapshot[T] {
	w := current("watch.WatchStream")
	cfg := streamConfig{preserveState: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		return e.lastValue.(notify.Snapshot[T])
	}

	w.checkDuplicate("watch.WatchStream", target, e)
	snapshot := notify.Waiting(placeholder)
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		if cfg.preserveState && e.kind == kindStream {
			if prev, ok := e.lastValue.(notify.Snapshot[T]); ok && prev.HasData() && !prev.HasError() {
				snapshot = notify.Waiting(prev.Data)
			}
		}
		w.release(e)
	}
	e.kind = kindStream
	e.handlerOnly = false
	e.target = target
	e.lastValue = snapshot

	gen := e.generation
	sub := target.Listen(func(value T) {
		if w.host == nil || e.generation != gen {
			return
		}
		e.lastValue = notify.Active(value)
		w.host.MarkNeedsBuild()
	}, func(err error) {
		if w.host == nil || e.generation != gen {
			return
		}
		e.lastValue = notify.ActiveError[T](err)
		errors.Report(&errors.AsyncError{
			Op:         "watch.WatchStream",
			Source:     "stream",
			Err:        err,
			StackTrace: errors.CaptureStack(),
		})
		w.host.MarkNeedsBuild()
	}, func() {
		if w.host == nil || e.generation != gen {
			return
		}
		// Freeze the last snapshot into its terminal state.
		prev := e.lastValue.(notify.Snapshot[T])
		if prev.HasError() {
			e.lastValue = notify.DoneError[T](prev.Err)
		} else {
			e.lastValue = notify.Done(prev.Data)
		}
		w.host.MarkNeedsBuild()
	})
	e.dispose = sub.Cancel
	return snapshot
}

// WatchFuture observes a one-shot future and returns its snapshot: Waiting
// with the placeholder while pending, then Done with the value or error.
// The completion marks the element dirty exactly once. Re-observing the
// same future returns the stored snapshot without reattaching; observing a
// different future detaches the superseded continuation so a late
// resolution of the old future is ignored.
func WatchFuture[T any](target *notify.Future[T], placeholder T) notify.Snapshot[T] {
	w := current("watch.WatchFuture")
	e := w.nextSlot()
	if e != nil && e.target == any(target) {
		// The completion callback writes the snapshot from whichever
		// goroutine settled the future.
		w.mu.Lock()
		snapshot := e.lastValue.(notify.Snapshot[T])
		w.mu.Unlock()
		return snapshot
	}

	w.checkDuplicate("watch.WatchFuture", target, e)
	if e == nil {
		e = w.appendSlot(&entry{})
	} else {
		w.release(e)
	}
	e.kind = kindFuture
	e.handlerOnly = false
	e.target = target

	if value, err, done := target.Result(); done {
		if err != nil {
			e.lastValue = notify.DoneError[T](err)
		} else {
			e.lastValue = notify.Done(value)
		}
		return e.lastValue.(notify.Snapshot[T])
	}

	snapshot := notify.Waiting(placeholder)
	e.lastValue = snapshot
	gen := e.generation
	e.dispose = target.Then(func(value T, err error) {
		w.mu.Lock()
		if w.host == nil || e.generation != gen {
			w.mu.Unlock()
			return
		}
		var report *errors.AsyncError
		if err != nil {
			e.lastValue = notify.DoneError[T](err)
			report = &errors.AsyncError{
				Op:         "watch.WatchFuture",
				Source:     "future",
				Err:        err,
				StackTrace: errors.CaptureStack(),
			}
		} else {
			e.lastValue = notify.Done(value)
		}
		host := w.host
		w.mu.Unlock()
		if report != nil {
			errors.Report(report)
		}
		host.MarkNeedsBuild()
	})
	return snapshot
}

// Get resolves a dependency from the locator without watching it. Inside a
// build it uses the building watcher's locator; elsewhere it falls back to
// the default locator.
func Get[T any](name ...string) T {
	loc := locator.Default()
	if active != nil {
		loc = active.loc
	}
	return locator.Lookup[T](loc, name...)
}

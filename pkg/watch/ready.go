package watch

import (
	"time"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/locator"
	"github.com/go-drift/watch/pkg/notify"
)

// ReadyOption configures AllReady and IsReady.
type ReadyOption func(*readyConfig)

type readyConfig struct {
	timeout   time.Duration
	onReady   func()
	onError   func(error)
	once      bool
	noRebuild bool
	name      string
	op        string
}

// Timeout caps the readiness wait. When it elapses first, the watch settles
// with a *errors.TimeoutError.
func Timeout(d time.Duration) ReadyOption {
	return func(c *readyConfig) { c.timeout = d }
}

// OnReady runs fn when readiness is reached. Without CallHandlerOnce the
// handler also re-runs on every later build of the component once settled.
func OnReady(fn func()) ReadyOption {
	return func(c *readyConfig) { c.onReady = fn }
}

// OnError routes a readiness failure (including timeouts) to fn. Without
// it, the failure is re-raised the next time the component builds.
func OnError(fn func(error)) ReadyOption {
	return func(c *readyConfig) { c.onError = fn }
}

// CallHandlerOnce caps the ready handler at exactly one invocation, even
// though the settled watch would otherwise re-invoke it on every build.
func CallHandlerOnce() ReadyOption {
	return func(c *readyConfig) { c.once = true }
}

// NoRebuild suppresses the dirty-mark on completion, turning the watch into
// a pure handler registration. A failure with no OnError handler still marks
// the element dirty, because that failure surfaces as a panic on the next
// build and must not go unseen.
func NoRebuild() ReadyOption {
	return func(c *readyConfig) { c.noRebuild = true }
}

// Named selects a named registration for IsReady.
func Named(name string) ReadyOption {
	return func(c *readyConfig) { c.name = name }
}

// readyState is the slot-resident state of a readiness watch.
type readyState struct {
	ready        bool
	err          error
	handlerFired bool
}

// AllReady reports whether every async registration in the locator has
// resolved. The first call starts a readiness wait (built on the future
// adapter); completion marks the element dirty so the next build observes
// true. With nothing pending it returns true immediately, with no
// dirty-mark.
//
// A readiness failure with no OnError handler panics with the original
// error on the next build — fail loudly by default.
func AllReady(opts ...ReadyOption) bool {
	w := current("watch.AllReady")
	cfg := applyReadyOptions("watch.AllReady", opts)

	e := w.nextSlot()
	if e != nil {
		return w.settleReady(e, &cfg)
	}
	e = w.appendSlot(&entry{kind: kindReady, handlerOnly: true, lastValue: &readyState{}})

	if w.loc.AllReadySync() {
		e.lastValue.(*readyState).ready = true
		return w.settleReady(e, &cfg)
	}
	w.bindReady(e, w.loc.AllReady(cfg.timeout), &cfg)
	return false
}

// IsReady is AllReady narrowed to one registry key: the type parameter plus
// an optional Named instance.
func IsReady[T any](opts ...ReadyOption) bool {
	w := current("watch.IsReady")
	cfg := applyReadyOptions("watch.IsReady", opts)

	e := w.nextSlot()
	if e != nil {
		return w.settleReady(e, &cfg)
	}
	e = w.appendSlot(&entry{kind: kindReady, handlerOnly: true, lastValue: &readyState{}})

	var names []string
	if cfg.name != "" {
		names = append(names, cfg.name)
	}
	if locator.IsReadySync[T](w.loc, names...) {
		e.lastValue.(*readyState).ready = true
		return w.settleReady(e, &cfg)
	}
	w.bindReady(e, locator.IsReady[T](w.loc, cfg.timeout, names...), &cfg)
	return false
}

func applyReadyOptions(op string, opts []ReadyOption) readyConfig {
	cfg := readyConfig{op: op}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// bindReady attaches the readiness future to the slot entry. The completion
// may arrive from a worker or timer goroutine, so the liveness check and the
// state writes happen under the watcher lock; the caller-supplied handlers
// run outside it.
func (w *Watcher) bindReady(e *entry, fut *notify.Future[struct{}], cfg *readyConfig) {
	e.target = fut
	st := e.lastValue.(*readyState)
	gen := e.generation
	onReady, onError, noRebuild, op := cfg.onReady, cfg.onError, cfg.noRebuild, cfg.op

	e.dispose = fut.Then(func(_ struct{}, err error) {
		w.mu.Lock()
		if w.host == nil || e.generation != gen {
			w.mu.Unlock()
			return
		}
		if err != nil {
			st.err = err
		} else {
			st.ready = true
			if onReady != nil {
				st.handlerFired = true
			}
		}
		host := w.host
		w.mu.Unlock()

		if err != nil {
			if onError != nil {
				onError(err)
				if !noRebuild {
					host.MarkNeedsBuild()
				}
				return
			}
			errors.Report(&errors.AsyncError{
				Op:     op,
				Source: "readiness",
				Err:    err,
			})
			// Unhandled failures always schedule a build so the panic in
			// settleReady can surface.
			host.MarkNeedsBuild()
			return
		}
		if onReady != nil {
			onReady()
		}
		if !noRebuild {
			host.MarkNeedsBuild()
		}
	})
}

// settleReady produces the per-build result for an existing readiness slot:
// re-raise an unhandled failure, re-run the ready handler unless capped,
// and return the settled flag.
func (w *Watcher) settleReady(e *entry, cfg *readyConfig) bool {
	st := e.lastValue.(*readyState)
	w.mu.Lock()
	ready, err := st.ready, st.err
	fire := ready && cfg.onReady != nil && (!cfg.once || !st.handlerFired)
	if fire {
		st.handlerFired = true
	}
	w.mu.Unlock()

	if err != nil && cfg.onError == nil {
		panic(err)
	}
	if fire {
		cfg.onReady()
	}
	return ready
}

// Package watch binds declarative UI components to external mutable state:
// change notifiers, value notifiers, streams, one-shot futures, and the
// dependency registry in package locator. A build function calls the
// observation operations it needs; the library subscribes behind the
// scenes, re-renders the component when a watched source changes, and
// releases every subscription exactly once at unmount — no manual
// subscription management.
//
// # Slots
//
// Observation calls have no explicit keys. Each call occupies a slot
// identified by its position in the build's call sequence, matched
// position-for-position against the previous build: the same target in the
// same slot reuses the live subscription, a different target rebinds it,
// and a slot past the end of the list appends. This requires the caller
// obligation familiar from hook-based UI systems: a component must issue
// the same observation calls in the same order on every build. Conditional
// observation calls are not supported.
//
// Watching the same target at two positions in one build is reported
// immediately as a usage error. Handler registrations (OnChange, OnStream,
// OnFuture) are exempt and freely coexist with a plain watch of the same
// target.
//
// # Driving the lifecycle
//
// The host element owns a Watcher and drives it at four points:
//
//	w := watch.NewWatcher()
//	w.Mount(element)            // when the element mounts
//
//	w.BeginBuild()              // before calling the build function
//	defer w.EndBuild()          // even when the build panics
//	view := component.Build()
//
//	w.Unmount()                 // when the element unmounts
//
// Inside the build, components observe freely:
//
//	func (c *OrdersPanel) Build() Widget {
//	    model := watch.Watch(watch.Get[*OrdersModel]())
//	    count := watch.WatchProperty(model, func(m *OrdersModel) int { return len(m.Open) })
//	    feed := watch.WatchStream(model.Updates, "connecting")
//	    ...
//	}
//
// # Concurrency
//
// The library assumes a single-threaded cooperative render loop: exactly
// one build in flight process-wide, notifications processed one at a time,
// and at most one dirty-mark per notification. Future and readiness
// completions may arrive from other goroutines; each Watcher synchronizes
// them internally, checking the per-subscription generation token and the
// host reference under a lock, so completions racing with a rebind or an
// unmount are discarded silently.
package watch

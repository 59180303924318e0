package watch

import (
	"fmt"
	"sync"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/locator"
)

// Watcher is the per-component-instance watch registry: an ordered list of
// slot entries plus a cursor. The host element creates one at mount, resets
// the cursor before every build, and tears it down at unmount. Observation
// calls inside the build consult the slot at the current cursor position, so
// a build function must issue the same observation calls in the same order
// on every build of a given instance.
//
// A Watcher is exclusively owned by one element; its build-side API must be
// called on the UI loop. Future and readiness completions may arrive from
// other goroutines and are internally synchronized.
type Watcher struct {
	// mu guards host and the entry fields asynchronous completions touch
	// (generation tokens and snapshot state). Every other field is confined
	// to the UI loop.
	mu   sync.Mutex
	host Host
	loc  *locator.Locator

	entries []*entry
	cursor  int

	mounted  bool
	building bool

	// scopeName is the auto-generated locator scope pushed by PushScope,
	// or "" when none was pushed.
	scopeName  string
	scopeUnsub func()
}

// active is the process-wide "currently building instance" register. It is
// set and cleared strictly bracketing each build call (BeginBuild/EndBuild)
// so the free observation functions can find the right Watcher without the
// caller threading it through every call site. Valid only for the duration
// of one synchronous build on the UI loop; nested builds are not supported.
var active *Watcher

// current returns the watcher of the build in flight, or panics: calling an
// observation operation outside an active build is a usage error.
func current(op string) *Watcher {
	if active == nil {
		panic(&errors.UsageError{Op: op, Reason: "called outside an active build"})
	}
	return active
}

// NewWatcher creates a watcher bound to the default locator.
func NewWatcher() *Watcher {
	return NewWatcherFor(locator.Default())
}

// NewWatcherFor creates a watcher bound to a specific locator. Useful in
// tests and for applications running several isolated registries.
func NewWatcherFor(loc *locator.Locator) *Watcher {
	return &Watcher{loc: loc}
}

// Mount attaches the watcher to its host element and subscribes to the
// locator's scope-change notifications so the component re-resolves its
// lookups after a scope is pushed or dropped.
func (w *Watcher) Mount(host Host) {
	if w.mounted {
		panic(&errors.UsageError{Op: "watch.Mount", Reason: "watcher is already mounted"})
	}
	w.mounted = true
	w.host = host
	w.scopeUnsub = w.loc.ScopeChanged().AddListener(func() {
		if w.host != nil {
			w.host.MarkNeedsBuild()
		}
	})
}

// BeginBuild starts a build: it resets the slot cursor and installs this
// watcher as the active instance. Hosts must pair it with EndBuild, calling
// EndBuild via defer so the active register is cleared even when the build
// panics.
func (w *Watcher) BeginBuild() {
	if !w.mounted {
		panic(&errors.UsageError{Op: "watch.BeginBuild", Reason: "watcher is not mounted"})
	}
	if active != nil {
		panic(&errors.UsageError{Op: "watch.BeginBuild", Reason: "a build is already in flight; nested builds are not supported"})
	}
	active = w
	w.building = true
	w.cursor = 0
}

// EndBuild finishes a build and clears the active register.
func (w *Watcher) EndBuild() {
	active = nil
	w.building = false
}

// Build runs fn bracketed by BeginBuild/EndBuild.
func (w *Watcher) Build(fn func()) {
	w.BeginBuild()
	defer w.EndBuild()
	fn()
}

// Unmount tears the watcher down: the host reference is dropped first so
// asynchronous completions racing with unmount see a dead watcher, then
// every slot entry is released exactly once (newest first, mirroring
// disposer order), and a pushed scope is dropped.
func (w *Watcher) Unmount() {
	if !w.mounted {
		return
	}
	w.mounted = false
	w.mu.Lock()
	w.host = nil
	w.mu.Unlock()

	for i := len(w.entries) - 1; i >= 0; i-- {
		w.release(w.entries[i])
	}
	w.entries = nil

	if w.scopeUnsub != nil {
		w.scopeUnsub()
		w.scopeUnsub = nil
	}
	if w.scopeName != "" {
		w.loc.DropScope(w.scopeName)
		w.scopeName = ""
	}
}

// IsMounted reports whether the watcher is live.
func (w *Watcher) IsMounted() bool {
	return w.mounted
}

// EntryCount returns the number of live slot entries.
func (w *Watcher) EntryCount() int {
	return len(w.entries)
}

// nextSlot returns the entry at the cursor and advances, or nil when the
// cursor has run past the end of the list — meaning this observation was
// not seen on a prior build and must be appended.
func (w *Watcher) nextSlot() *entry {
	if w.cursor >= len(w.entries) {
		return nil
	}
	e := w.entries[w.cursor]
	w.cursor++
	return e
}

// appendSlot adds a new entry at the end and parks the cursor past the end:
// once one new observation has appended, every later observation this build
// appends too, keeping positional order consistent.
func (w *Watcher) appendSlot(e *entry) *entry {
	w.entries = append(w.entries, e)
	w.cursor = len(w.entries)
	return e
}

// checkDuplicate enforces the single-watch rule: at most one non-handler
// entry may observe a given target identity. except is the entry about to be
// rebound, which may legitimately hold the target already.
func (w *Watcher) checkDuplicate(op string, target any, except *entry) {
	for _, e := range w.entries {
		if e == except || e.handlerOnly || e.target == nil {
			continue
		}
		if e.target == target {
			panic(&errors.UsageError{
				Op:     op,
				Reason: fmt.Sprintf("duplicate watch of the same %s target in one build", e.kind),
			})
		}
	}
}

// release tears down an entry's live subscription. Exactly-once: the dispose
// closure is taken and nilled under the lock, and the generation bump happens
// there too, so an asynchronous completion racing with the release already
// sees a stale token. The dispose itself runs unlocked because it may invoke
// caller code.
func (w *Watcher) release(e *entry) {
	w.mu.Lock()
	e.generation++
	dispose := e.dispose
	e.dispose = nil
	w.mu.Unlock()
	if dispose != nil {
		dispose()
	}
}

// markNeedsBuild forwards a dirty-mark to the host if the watcher is still
// live.
func (w *Watcher) markNeedsBuild() {
	if w.host != nil {
		w.host.MarkNeedsBuild()
	}
}

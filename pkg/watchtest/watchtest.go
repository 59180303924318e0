// Package watchtest provides isolated testing of watch bindings without a
// real element tree. Bench stands in for the host element and the render
// loop: it mounts a Watcher, drives builds, and records dirty-marks.
package watchtest

import (
	"sync"

	"github.com/go-drift/watch/pkg/locator"
	"github.com/go-drift/watch/pkg/watch"
)

// Element is a fake host element. It records every MarkNeedsBuild call so
// tests can assert on exact dirty-mark counts. All methods are safe for
// concurrent use, since completions may arrive from timer goroutines.
type Element struct {
	mu         sync.Mutex
	dirty      bool
	dirtyCount int
}

// MarkNeedsBuild records a re-render request.
func (e *Element) MarkNeedsBuild() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = true
	e.dirtyCount++
}

// NeedsBuild reports whether a re-render request is outstanding.
func (e *Element) NeedsBuild() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// DirtyCount returns the total number of dirty-marks received.
func (e *Element) DirtyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirtyCount
}

func (e *Element) clearDirty() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// Bench drives one component instance: a fake element, its Watcher, and a
// build function, the way an element tree would.
type Bench struct {
	// Element is the fake host the Watcher marks dirty.
	Element *Element
	// Watcher is the slot registry under test.
	Watcher *watch.Watcher

	build      func()
	buildCount int
}

// NewBench mounts a fresh Watcher bound to the default locator and runs the
// first build, mirroring element mount semantics.
func NewBench(build func()) *Bench {
	return NewBenchFor(locator.Default(), build)
}

// NewBenchFor is NewBench against a specific locator.
func NewBenchFor(loc *locator.Locator, build func()) *Bench {
	b := &Bench{
		Element: &Element{},
		Watcher: watch.NewWatcherFor(loc),
		build:   build,
	}
	b.Watcher.Mount(b.Element)
	b.Rebuild()
	return b
}

// Rebuild forces a build, clearing any outstanding dirty-mark first.
func (b *Bench) Rebuild() {
	b.Element.clearDirty()
	b.buildCount++
	b.Watcher.Build(b.build)
}

// Pump rebuilds if the element is dirty. Reports whether a build ran.
func (b *Bench) Pump() bool {
	if !b.Element.NeedsBuild() {
		return false
	}
	b.Rebuild()
	return true
}

// BuildCount returns how many builds have run, including the mount build.
func (b *Bench) BuildCount() int {
	return b.buildCount
}

// SetBuild swaps the build function, for tests that change what the
// component observes between builds.
func (b *Bench) SetBuild(build func()) {
	b.build = build
}

// Unmount tears the instance down.
func (b *Bench) Unmount() {
	b.Watcher.Unmount()
}

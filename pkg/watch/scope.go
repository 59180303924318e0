package watch

import "fmt"

// scopeSeq numbers auto-generated scope names so manual scope manipulation
// elsewhere cannot collide with them. Loop-confined like the rest of the
// package.
var scopeSeq int

// PushScope pushes a component-lifetime scope onto the locator: once per
// watcher lifetime, no matter how often the component rebuilds. init runs
// immediately after the push; dispose runs when the scope is dropped at
// unmount. The scope name is generated to be unique per push.
func PushScope(init, dispose func()) {
	w := current("watch.PushScope")
	if w.scopeName != "" {
		return
	}
	scopeSeq++
	name := fmt.Sprintf("watch-scope-%d", scopeSeq)
	w.loc.PushScope(name, init, dispose)
	w.scopeName = name
}

package watch

// Host is the retained-mode element a Watcher reports changes to. The
// element owns the Watcher; the Watcher keeps only this non-owning
// back-reference for dirty-marking, and drops it at unmount so late
// asynchronous callbacks detect teardown and no-op.
type Host interface {
	// MarkNeedsBuild requests that the element be rebuilt on the next
	// scheduling opportunity. It must never rebuild inline.
	MarkNeedsBuild()
}

// Disposable is implemented by values owning resources that must be
// released when their component unmounts. CreateOnce disposes such values
// automatically.
type Disposable interface {
	Dispose()
}

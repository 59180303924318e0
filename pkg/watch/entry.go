package watch

// entryKind tags which source adapter owns a slot entry. The set is closed;
// every observation operation dispatches on its own kind.
type entryKind int

const (
	kindListenable entryKind = iota
	kindSelector
	kindStream
	kindFuture
	kindCallOnce
	kindCreateOnce
	kindReady
)

func (k entryKind) String() string {
	switch k {
	case kindListenable:
		return "listenable"
	case kindSelector:
		return "selector"
	case kindStream:
		return "stream"
	case kindFuture:
		return "future"
	case kindCallOnce:
		return "call-once"
	case kindCreateOnce:
		return "create-once"
	case kindReady:
		return "ready"
	default:
		return "unknown"
	}
}

// entry is one watch slot: a record of one observed source, its latest
// snapshot, and how to release the live subscription.
type entry struct {
	kind entryKind

	// handlerOnly entries exist purely to run a side-effecting callback.
	// They never participate in duplicate-target detection, so a plain
	// watch and any number of handler registrations can share one target.
	handlerOnly bool

	// target is the identity of the observed source. Identity, not value,
	// is the comparison key across builds.
	target any

	// lastValue holds the latest observed or derived value (or async
	// snapshot), used for change detection and same-build returns. For
	// future and readiness entries it is written by completion callbacks
	// and therefore accessed under the owning Watcher's lock.
	lastValue any

	// dispose releases the live subscription. Nil when nothing is
	// attached; Watcher.release takes and nils it exactly once.
	dispose func()

	// generation is bumped on every rebind and teardown, under the owning
	// Watcher's lock. Async callbacks capture the generation they were
	// attached under and go silent when it no longer matches.
	generation int
}

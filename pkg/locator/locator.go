package locator

import (
	"fmt"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/notify"
)

// Locator is a stack of scopes, each holding type-and-name-keyed
// registrations. Registrations land in the topmost scope; lookups search
// from the top down.
type Locator struct {
	scopes       []*scope
	scopeChanged *notify.ValueNotifier[bool]
}

// New creates a locator with a single base scope.
func New() *Locator {
	return &Locator{
		scopes:       []*scope{newScope(BaseScopeName, nil)},
		scopeChanged: notify.NewValueNotifier(false),
	}
}

var defaultLocator = New()

// Default returns the process-wide locator used by the watch package.
func Default() *Locator {
	return defaultLocator
}

// Reset replaces the default locator with a fresh one. Intended for tests.
func Reset() {
	defaultLocator = New()
}

// top returns the scope registrations currently land in.
func (l *Locator) top() *scope {
	return l.scopes[len(l.scopes)-1]
}

// find searches scopes from the top down for a key.
func (l *Locator) find(key serviceKey) (*registration, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if reg, ok := l.scopes[i].registrations[key]; ok {
			return reg, true
		}
	}
	return nil, false
}

func (l *Locator) add(reg *registration) {
	sc := l.top()
	if _, exists := sc.registrations[reg.key]; exists {
		panic(&errors.UsageError{
			Op:     "locator.Register",
			Reason: fmt.Sprintf("%s is already registered in scope %q", reg.key, sc.name),
		})
	}
	sc.registrations[reg.key] = reg
	if reg.kind == kindAsync {
		sc.asyncRegs = append(sc.asyncRegs, reg)
		sc.pending.Add(reg.key)
	}
}

// Register stores an eager singleton under its type and optional name.
func Register[T any](l *Locator, value T, name ...string) {
	l.add(&registration{
		key:      keyFor[T](name...),
		kind:     kindValue,
		instance: value,
		created:  true,
	})
}

// RegisterLazy stores a singleton created on first lookup.
func RegisterLazy[T any](l *Locator, factory func() T, name ...string) {
	l.add(&registration{
		key:     keyFor[T](name...),
		kind:    kindLazy,
		factory: func() any { return factory() },
	})
}

// RegisterFactory stores a factory producing a fresh instance per lookup.
func RegisterFactory[T any](l *Locator, factory func() T, name ...string) {
	l.add(&registration{
		key:     keyFor[T](name...),
		kind:    kindFactory,
		factory: func() any { return factory() },
	})
}

// RegisterAsync stores a singleton that becomes available asynchronously.
// start is invoked immediately and must eventually call done exactly once,
// from any goroutine, with the instance or a startup error. Until then the
// registration counts as pending for the readiness queries and Lookup
// panics for its key.
func RegisterAsync[T any](l *Locator, start func(done func(T, error)), name ...string) {
	reg := &registration{
		key:   keyFor[T](name...),
		kind:  kindAsync,
		ready: notify.NewCompleter[struct{}](),
	}
	l.add(reg)

	sc := l.top()
	key := reg.key
	start(func(value T, err error) {
		sc.pending.Remove(key)
		reg.complete(value, err)
	})
}

// Lookup resolves a registered instance by type and optional name.
// Panics with a *errors.UsageError when the key is unknown or the
// registration is an async singleton that has not completed.
func Lookup[T any](l *Locator, name ...string) T {
	key := keyFor[T](name...)
	reg, ok := l.find(key)
	if !ok {
		panic(&errors.UsageError{
			Op:     "locator.Lookup",
			Reason: fmt.Sprintf("nothing registered for %s", key),
		})
	}
	return reg.resolve().(T)
}

// TryLookup resolves a registered instance, reporting false when the key is
// unknown. It still panics for a not-yet-ready async registration, since
// that is a sequencing bug rather than a missing registration.
func TryLookup[T any](l *Locator, name ...string) (T, bool) {
	reg, ok := l.find(keyFor[T](name...))
	if !ok {
		var zero T
		return zero, false
	}
	return reg.resolve().(T), true
}

// Unregister removes a registration from whichever scope holds it,
// disposing its created singleton if it implements Dispose().
func Unregister[T any](l *Locator, name ...string) {
	key := keyFor[T](name...)
	for i := len(l.scopes) - 1; i >= 0; i-- {
		sc := l.scopes[i]
		if reg, ok := sc.registrations[key]; ok {
			reg.disposeInstance()
			sc.remove(key)
			return
		}
	}
	panic(&errors.UsageError{
		Op:     "locator.Unregister",
		Reason: fmt.Sprintf("nothing registered for %s", key),
	})
}

package locator

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/notify"
)

// BaseScopeName is the name of the root scope every locator starts with.
// The base scope cannot be dropped.
const BaseScopeName = "base"

// scope is one layer of the registration stack.
type scope struct {
	name          string
	registrations map[serviceKey]*registration

	// asyncRegs lists async registrations in registration order for
	// readiness aggregation.
	asyncRegs []*registration

	// pending holds keys of async registrations that have not completed.
	// It is a thread-safe set because done callbacks may arrive from
	// worker goroutines.
	pending mapset.Set[serviceKey]

	dispose func()
}

func newScope(name string, dispose func()) *scope {
	return &scope{
		name:          name,
		registrations: make(map[serviceKey]*registration),
		pending:       mapset.NewSet[serviceKey](),
		dispose:       dispose,
	}
}

func (s *scope) remove(key serviceKey) {
	delete(s.registrations, key)
	s.pending.Remove(key)
	for i, reg := range s.asyncRegs {
		if reg.key == key {
			s.asyncRegs = append(s.asyncRegs[:i], s.asyncRegs[i+1:]...)
			break
		}
	}
}

// PushScope layers a new named scope on top of the stack. init, if non-nil,
// runs immediately after the push; dispose, if non-nil, runs when the scope
// is dropped, before its singletons are disposed. Scope names must be unique
// within the stack.
func (l *Locator) PushScope(name string, init, dispose func()) {
	for _, sc := range l.scopes {
		if sc.name == name {
			panic(&errors.UsageError{
				Op:     "locator.PushScope",
				Reason: fmt.Sprintf("scope %q is already on the stack", name),
			})
		}
	}
	l.scopes = append(l.scopes, newScope(name, dispose))
	l.scopeChanged.Notify(true)
	if init != nil {
		init()
	}
}

// DropScope removes the named scope from wherever it sits in the stack,
// running its dispose callback and disposing its created singletons.
// Dropping the base scope is a usage error.
func (l *Locator) DropScope(name string) {
	if name == BaseScopeName {
		panic(&errors.UsageError{
			Op:     "locator.DropScope",
			Reason: "the base scope cannot be dropped",
		})
	}
	for i, sc := range l.scopes {
		if sc.name != name {
			continue
		}
		l.scopes = append(l.scopes[:i], l.scopes[i+1:]...)
		if sc.dispose != nil {
			sc.dispose()
		}
		for _, reg := range sc.registrations {
			reg.disposeInstance()
		}
		l.scopeChanged.Notify(false)
		return
	}
	panic(&errors.UsageError{
		Op:     "locator.DropScope",
		Reason: fmt.Sprintf("no scope named %q on the stack", name),
	})
}

// PopScope drops the topmost scope. Popping the base scope is a usage error.
func (l *Locator) PopScope() {
	l.DropScope(l.top().name)
}

// ScopeName returns the name of the topmost scope.
func (l *Locator) ScopeName() string {
	return l.top().name
}

// HasScope reports whether a scope with the given name is on the stack.
func (l *Locator) HasScope(name string) bool {
	for _, sc := range l.scopes {
		if sc.name == name {
			return true
		}
	}
	return false
}

// ScopeChanged exposes scope stack changes as a value notifier: true for a
// push, false for a drop. The watch lifecycle bridge subscribes to it so
// components re-resolve their lookups after scope changes.
func (l *Locator) ScopeChanged() *notify.ValueNotifier[bool] {
	return l.scopeChanged
}

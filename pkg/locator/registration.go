package locator

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/notify"
)

// serviceKey identifies one registration: a Go type plus an optional
// instance name.
type serviceKey struct {
	typ  reflect.Type
	name string
}

func (k serviceKey) String() string {
	if k.name != "" {
		return fmt.Sprintf("%s(%s)", k.typ, k.name)
	}
	return k.typ.String()
}

func keyFor[T any](name ...string) serviceKey {
	k := serviceKey{typ: reflect.TypeOf((*T)(nil)).Elem()}
	if len(name) > 0 {
		k.name = name[0]
	}
	return k
}

type registrationKind int

const (
	kindValue registrationKind = iota
	kindLazy
	kindFactory
	kindAsync
)

// registration is one registered object plus its creation strategy.
type registration struct {
	key     serviceKey
	kind    registrationKind
	factory func() any

	// ready is non-nil for async registrations and settles when the start
	// function reports completion.
	ready *notify.Completer[struct{}]

	// mu guards instance/created because an async done callback may arrive
	// from a worker goroutine.
	mu       sync.Mutex
	instance any
	created  bool
}

// resolve produces the registered object, creating it if needed.
func (r *registration) resolve() any {
	switch r.kind {
	case kindFactory:
		return r.factory()
	case kindLazy:
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.created {
			r.instance = r.factory()
			r.created = true
		}
		return r.instance
	case kindAsync:
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.created {
			panic(&errors.UsageError{
				Op:     "locator.Lookup",
				Reason: fmt.Sprintf("async registration %s is not ready yet; wait for AllReady", r.key),
			})
		}
		return r.instance
	default:
		return r.instance
	}
}

// isReady reports whether this registration can be resolved right now.
func (r *registration) isReady() bool {
	if r.ready == nil {
		return true
	}
	_, err, done := r.ready.Future().Result()
	return done && err == nil
}

// complete records an async result and settles the ready future.
func (r *registration) complete(instance any, err error) {
	r.mu.Lock()
	r.instance = instance
	r.created = err == nil
	r.mu.Unlock()

	if err != nil {
		r.ready.TryCompleteError(err)
	} else {
		r.ready.TryComplete(struct{}{})
	}
}

// disposeInstance calls Dispose on a created singleton that supports it.
func (r *registration) disposeInstance() {
	r.mu.Lock()
	instance, created := r.instance, r.created
	r.mu.Unlock()
	if !created || r.kind == kindFactory {
		return
	}
	if d, ok := instance.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}

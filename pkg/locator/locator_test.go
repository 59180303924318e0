package locator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/watch/pkg/errors"
)

type database struct {
	dsn      string
	disposed bool
}

func (d *database) Dispose() { d.disposed = true }

type cache struct{ hits int }

func TestRegisterAndLookup(t *testing.T) {
	l := New()
	db := &database{dsn: "primary"}
	Register(l, db)

	assert.Same(t, db, Lookup[*database](l))
}

func TestNamedRegistrations(t *testing.T) {
	l := New()
	Register(l, &database{dsn: "primary"})
	Register(l, &database{dsn: "replica"}, "replica")

	assert.Equal(t, "primary", Lookup[*database](l).dsn)
	assert.Equal(t, "replica", Lookup[*database](l, "replica").dsn)
}

func TestLookupUnknownPanics(t *testing.T) {
	l := New()
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*errors.UsageError)
		assert.True(t, ok, "expected *errors.UsageError, got %T", r)
	}()
	Lookup[*database](l)
}

func TestTryLookup(t *testing.T) {
	l := New()
	_, ok := TryLookup[*database](l)
	assert.False(t, ok)

	Register(l, &database{})
	_, ok = TryLookup[*database](l)
	assert.True(t, ok)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	l := New()
	Register(l, &database{})
	assert.Panics(t, func() { Register(l, &database{}) })
}

func TestRegisterLazyCreatesOnce(t *testing.T) {
	l := New()
	built := 0
	RegisterLazy(l, func() *cache {
		built++
		return &cache{}
	})

	assert.Equal(t, 0, built)
	first := Lookup[*cache](l)
	second := Lookup[*cache](l)
	assert.Same(t, first, second)
	assert.Equal(t, 1, built)
}

func TestRegisterFactoryCreatesPerLookup(t *testing.T) {
	l := New()
	RegisterFactory(l, func() *cache { return &cache{} })

	assert.NotSame(t, Lookup[*cache](l), Lookup[*cache](l))
}

func TestUnregisterDisposesInstance(t *testing.T) {
	l := New()
	db := &database{}
	Register(l, db)

	Unregister[*database](l)

	assert.True(t, db.disposed)
	_, ok := TryLookup[*database](l)
	assert.False(t, ok)
}

func TestAsyncLookupBeforeReadyPanics(t *testing.T) {
	l := New()
	RegisterAsync(l, func(done func(*database, error)) {})

	assert.Panics(t, func() { Lookup[*database](l) })
}

func TestAsyncLookupAfterDone(t *testing.T) {
	l := New()
	var finish func(*database, error)
	RegisterAsync(l, func(done func(*database, error)) { finish = done })

	db := &database{dsn: "async"}
	finish(db, nil)

	assert.Same(t, db, Lookup[*database](l))
}

func TestScopeShadowing(t *testing.T) {
	l := New()
	Register(l, &database{dsn: "base"})

	l.PushScope("request", nil, nil)
	Register(l, &database{dsn: "scoped"})
	assert.Equal(t, "scoped", Lookup[*database](l).dsn)

	l.DropScope("request")
	assert.Equal(t, "base", Lookup[*database](l).dsn)
}

func TestScopeLifecycleCallbacks(t *testing.T) {
	l := New()
	var events []string
	l.PushScope("session", func() { events = append(events, "init") }, func() { events = append(events, "dispose") })

	require.Equal(t, []string{"init"}, events)
	assert.Equal(t, "session", l.ScopeName())
	assert.True(t, l.HasScope("session"))

	l.DropScope("session")
	assert.Equal(t, []string{"init", "dispose"}, events)
	assert.Equal(t, BaseScopeName, l.ScopeName())
}

func TestDropScopeDisposesScopedSingletons(t *testing.T) {
	l := New()
	l.PushScope("session", nil, nil)
	db := &database{}
	Register(l, db)

	l.DropScope("session")
	assert.True(t, db.disposed)
}

func TestScopeChangedNotifier(t *testing.T) {
	l := New()
	var events []bool
	l.ScopeChanged().AddListener(func() { events = append(events, l.ScopeChanged().Value()) })

	l.PushScope("a", nil, nil)
	l.PopScope()

	assert.Equal(t, []bool{true, false}, events)
}

func TestDuplicateScopeNamePanics(t *testing.T) {
	l := New()
	l.PushScope("a", nil, nil)
	assert.Panics(t, func() { l.PushScope("a", nil, nil) })
}

func TestDropBaseScopePanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.DropScope(BaseScopeName) })
	assert.Panics(t, func() { l.PopScope() })
}

func TestDefaultAndReset(t *testing.T) {
	Reset()
	Register(Default(), &cache{})
	_, ok := TryLookup[*cache](Default())
	assert.True(t, ok)

	Reset()
	_, ok = TryLookup[*cache](Default())
	assert.False(t, ok)
}

func ExampleRegisterAsync() {
	l := New()
	RegisterAsync(l, func(done func(*database, error)) {
		// Normally the connection would be established on a worker
		// goroutine; completing synchronously keeps the example simple.
		done(&database{dsn: "primary"}, nil)
	})

	fmt.Println(l.AllReadySync())
	fmt.Println(Lookup[*database](l).dsn)
	// Output:
	// true
	// primary
}

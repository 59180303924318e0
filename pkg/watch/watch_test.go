package watch_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/locator"
	"github.com/go-drift/watch/pkg/notify"
	"github.com/go-drift/watch/pkg/watch"
	"github.com/go-drift/watch/pkg/watchtest"
)

// userModel is a change-notifying model with independent fields, so tests
// can tell raw notifications apart from projected-value changes.
type userModel struct {
	*notify.Notifier
	country string
	visits  int
}

func newUserModel(country string) *userModel {
	return &userModel{Notifier: notify.NewNotifier(), country: country}
}

func TestWatchRendersModelChanges(t *testing.T) {
	locator.Reset()
	m := newUserModel("A")
	locator.Register(locator.Default(), m)

	var rendered string
	bench := watchtest.NewBench(func() {
		rendered = watch.Watch(watch.Get[*userModel]()).country
	})
	require.Equal(t, 1, bench.BuildCount())
	require.Equal(t, "A", rendered)

	// Notifications without a field change coalesce into one render.
	m.NotifyListeners()
	m.NotifyListeners()
	bench.Pump()
	assert.Equal(t, 2, bench.BuildCount())
	assert.Equal(t, "A", rendered)

	m.country = "B"
	m.NotifyListeners()
	bench.Pump()
	assert.Equal(t, 3, bench.BuildCount())
	assert.Equal(t, "B", rendered)
}

func TestWatchValue(t *testing.T) {
	locator.Reset()
	counter := notify.NewValueNotifier(0)

	var rendered int
	bench := watchtest.NewBench(func() {
		rendered = watch.WatchValue(counter)
	})
	require.Equal(t, 0, rendered)

	counter.Set(0) // no change, no notification
	assert.False(t, bench.Element.NeedsBuild())

	counter.Set(5)
	assert.Equal(t, 1, bench.Element.DirtyCount())
	bench.Pump()
	assert.Equal(t, 5, rendered)
}

func TestWatchPropertyMarksDirtyOnlyOnProjectedChange(t *testing.T) {
	locator.Reset()
	m := newUserModel("A")

	bench := watchtest.NewBench(func() {
		watch.WatchProperty(m, func(m *userModel) string { return m.country })
	})

	// Five raw notifications, two projected changes.
	m.NotifyListeners()
	m.visits++
	m.NotifyListeners()
	m.country = "B"
	m.NotifyListeners()
	bench.Pump()
	m.NotifyListeners()
	m.country = "C"
	m.NotifyListeners()
	bench.Pump()

	assert.Equal(t, 2, bench.Element.DirtyCount())
}

func TestWatchPropertyReturnsCurrentProjection(t *testing.T) {
	locator.Reset()
	m := newUserModel("A")

	var rendered string
	bench := watchtest.NewBench(func() {
		rendered = watch.WatchProperty(m, func(m *userModel) string { return m.country })
	})
	assert.Equal(t, "A", rendered)

	m.country = "B"
	m.NotifyListeners()
	bench.Pump()
	assert.Equal(t, "B", rendered)
}

func TestWatchPropertySelectorReturningListenablePanics(t *testing.T) {
	locator.Reset()
	m := newUserModel("A")
	inner := notify.NewNotifier()

	assert.Panics(t, func() {
		watchtest.NewBench(func() {
			watch.WatchProperty(m, func(*userModel) *notify.Notifier { return inner })
		})
	})
}

func TestWatchStreamScenario(t *testing.T) {
	locator.Reset()
	s1 := notify.NewStream[string]()

	var snapshot notify.Snapshot[string]
	target := s1
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchStream(target, "init", watch.PreserveState(false))
	})

	require.Equal(t, notify.StateWaiting, snapshot.State)
	require.Equal(t, "init", snapshot.Data)

	s1.Add("X")
	assert.Equal(t, 1, bench.Element.DirtyCount())
	bench.Pump()
	assert.Equal(t, notify.StateActive, snapshot.State)
	assert.Equal(t, "X", snapshot.Data)

	// Switch to a different stream instance: the old subscription is
	// cancelled and further emissions on it are inert.
	s2 := notify.NewStream[string]()
	target = s2
	bench.Rebuild()
	require.Equal(t, 0, s1.SubscriberCount())
	require.Equal(t, 1, s2.SubscriberCount())

	before := bench.Element.DirtyCount()
	s1.Add("X")
	assert.Equal(t, before, bench.Element.DirtyCount())
	assert.Equal(t, "init", snapshot.Data)

	s2.Add("Y")
	bench.Pump()
	assert.Equal(t, "Y", snapshot.Data)
}

func TestWatchStreamPreservesStateAcrossRebind(t *testing.T) {
	locator.Reset()
	s1 := notify.NewStream[string]()
	s2 := notify.NewStream[string]()

	var snapshot notify.Snapshot[string]
	target := s1
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchStream(target, "init")
	})
	s1.Add("X")
	bench.Pump()

	target = s2
	bench.Rebuild()

	// Default is state-preserving reselection: the new subscription's
	// placeholder is the old stream's last value.
	assert.Equal(t, notify.StateWaiting, snapshot.State)
	assert.Equal(t, "X", snapshot.Data)
}

func TestWatchStreamSameIdentityDoesNotResubscribe(t *testing.T) {
	locator.Reset()
	s := notify.NewStream[int]()
	bench := watchtest.NewBench(func() {
		watch.WatchStream(s, 0)
	})

	for i := 0; i < 5; i++ {
		bench.Rebuild()
	}
	assert.Equal(t, 1, s.SubscriberCount())
}

func TestWatchStreamErrorBecomesSnapshot(t *testing.T) {
	locator.Reset()
	rec := &recordingHandler{}
	errors.SetHandler(rec)
	defer errors.SetHandler(nil)
	s := notify.NewStream[int]()

	var snapshot notify.Snapshot[int]
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchStream(s, 0)
	})

	s.AddError(fmt.Errorf("feed down"))
	assert.Equal(t, 1, bench.Element.DirtyCount())
	bench.Pump()

	require.Len(t, rec.reported, 1)
	assert.True(t, snapshot.HasError())
	assert.PanicsWithError(t, "feed down", func() { snapshot.RequireData() })
}

func TestWatchStreamCloseProducesDoneSnapshot(t *testing.T) {
	locator.Reset()
	s := notify.NewStream[string]()

	var snapshot notify.Snapshot[string]
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchStream(s, "init")
	})
	s.Add("X")
	bench.Pump()

	s.Close()
	require.True(t, bench.Pump())

	assert.Equal(t, notify.StateDone, snapshot.State)
	assert.Equal(t, "X", snapshot.Data)
}

func TestWatchFutureLifecycle(t *testing.T) {
	locator.Reset()
	c := notify.NewCompleter[string]()

	var snapshot notify.Snapshot[string]
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchFuture(c.Future(), "loading")
	})
	require.Equal(t, notify.StateWaiting, snapshot.State)
	require.Equal(t, "loading", snapshot.Data)

	c.Complete("ready")
	assert.Equal(t, 1, bench.Element.DirtyCount())
	bench.Pump()
	assert.Equal(t, notify.StateDone, snapshot.State)
	assert.Equal(t, "ready", snapshot.Data)

	// Settled futures stay settled; further builds neither resubscribe
	// nor mark dirty.
	bench.Rebuild()
	assert.Equal(t, 1, bench.Element.DirtyCount())
}

func TestWatchFutureAlreadyDone(t *testing.T) {
	locator.Reset()
	c := notify.NewCompleter[int]()
	c.Complete(7)

	var snapshot notify.Snapshot[int]
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchFuture(c.Future(), 0)
	})

	assert.Equal(t, notify.StateDone, snapshot.State)
	assert.Equal(t, 7, snapshot.Data)
	assert.Equal(t, 0, bench.Element.DirtyCount())
}

func TestWatchFutureRebindIgnoresSupersededCompletion(t *testing.T) {
	locator.Reset()
	first := notify.NewCompleter[int]()
	second := notify.NewCompleter[int]()

	var snapshot notify.Snapshot[int]
	target := first.Future()
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchFuture(target, -1)
	})

	target = second.Future()
	bench.Rebuild()

	// The superseded future resolving must not affect anything.
	first.Complete(1)
	assert.Equal(t, 0, bench.Element.DirtyCount())
	assert.Equal(t, notify.StateWaiting, snapshot.State)

	second.Complete(2)
	assert.Equal(t, 1, bench.Element.DirtyCount())
	bench.Pump()
	assert.Equal(t, 2, snapshot.Data)
}

func TestFutureResolutionAfterUnmountIsNoop(t *testing.T) {
	locator.Reset()
	c := notify.NewCompleter[int]()
	bench := watchtest.NewBench(func() {
		watch.WatchFuture(c.Future(), 0)
	})

	bench.Unmount()
	assert.NotPanics(t, func() { c.Complete(1) })
	assert.Equal(t, 0, bench.Element.DirtyCount())
}

func TestWatchFutureErrorPanicsOnRead(t *testing.T) {
	locator.Reset()
	errors.SetHandler(&recordingHandler{})
	defer errors.SetHandler(nil)
	c := notify.NewCompleter[int]()

	var snapshot notify.Snapshot[int]
	bench := watchtest.NewBench(func() {
		snapshot = watch.WatchFuture(c.Future(), 0)
	})

	c.CompleteError(fmt.Errorf("fetch failed"))
	bench.Pump()

	assert.True(t, snapshot.HasError())
	assert.PanicsWithError(t, "fetch failed", func() { snapshot.RequireData() })
}

func TestConcurrentFutureCompletionsDuringRebuilds(t *testing.T) {
	locator.Reset()
	const workers = 32
	completers := make([]*notify.Completer[int], workers)
	futures := make([]*notify.Future[int], workers)
	for i := range completers {
		completers[i] = notify.NewCompleter[int]()
		futures[i] = completers[i].Future()
	}

	snapshots := make([]notify.Snapshot[int], workers)
	bench := watchtest.NewBench(func() {
		for i, fut := range futures {
			snapshots[i] = watch.WatchFuture(fut, -1)
		}
	})

	// Settle every future from its own goroutine while the loop keeps
	// rebuilding, the way real completions land mid-frame.
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, c := range completers {
		wg.Add(1)
		go func(i int, c *notify.Completer[int]) {
			defer wg.Done()
			<-start
			c.Complete(i)
		}(i, c)
	}
	close(start)
	for i := 0; i < 100; i++ {
		bench.Rebuild()
	}
	wg.Wait()

	bench.Rebuild()
	for i, snap := range snapshots {
		assert.Equal(t, notify.StateDone, snap.State)
		assert.Equal(t, i, snap.Data)
	}
}

func TestGetOutsideBuildUsesDefaultLocator(t *testing.T) {
	locator.Reset()
	locator.Register(locator.Default(), newUserModel("Z"))

	assert.Equal(t, "Z", watch.Get[*userModel]().country)
}

func ExampleWatchValue() {
	locator.Reset()
	counter := notify.NewValueNotifier(0)

	bench := watchtest.NewBench(func() {
		fmt.Println("count:", watch.WatchValue(counter))
	})

	counter.Set(1)
	bench.Pump()
	bench.Unmount()
	// Output:
	// count: 0
	// count: 1
}

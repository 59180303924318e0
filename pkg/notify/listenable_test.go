package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierAddAndRemove(t *testing.T) {
	n := NewNotifier()
	calls := 0

	remove := n.AddListener(func() { calls++ })
	n.NotifyListeners()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, n.ListenerCount())

	remove()
	n.NotifyListeners()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.ListenerCount())

	// Removal is idempotent.
	remove()
	assert.Equal(t, 0, n.ListenerCount())
}

func TestNotifierZeroValueUsable(t *testing.T) {
	var n Notifier
	called := false
	n.AddListener(func() { called = true })
	n.NotifyListeners()
	assert.True(t, called)
}

func TestNotifierDispose(t *testing.T) {
	n := NewNotifier()
	calls := 0
	n.AddListener(func() { calls++ })

	n.Dispose()
	n.NotifyListeners()
	assert.Equal(t, 0, calls)
}

func TestValueNotifierSetOnlyNotifiesOnChange(t *testing.T) {
	v := NewValueNotifier("A")
	notified := 0
	v.AddListener(func() { notified++ })

	v.Set("A")
	assert.Equal(t, 0, notified)

	v.Set("B")
	assert.Equal(t, 1, notified)
	assert.Equal(t, "B", v.Value())
}

func TestValueNotifierNotifyIsUnconditional(t *testing.T) {
	v := NewValueNotifier(7)
	notified := 0
	v.AddListener(func() { notified++ })

	v.Notify(7)
	v.Notify(7)
	assert.Equal(t, 2, notified)
}

func TestValueNotifierUpdate(t *testing.T) {
	v := NewValueNotifier(10)
	notified := 0
	v.AddListener(func() { notified++ })

	v.Update(func(n int) int { return n * 2 })
	assert.Equal(t, 20, v.Value())
	assert.Equal(t, 1, notified)

	v.Update(func(n int) int { return n })
	assert.Equal(t, 1, notified)
}

func TestValueNotifierDeepEquality(t *testing.T) {
	type point struct{ X, Y []int }
	v := NewValueNotifier(point{X: []int{1}, Y: []int{2}})
	notified := 0
	v.AddListener(func() { notified++ })

	v.Set(point{X: []int{1}, Y: []int{2}})
	assert.Equal(t, 0, notified)

	v.Set(point{X: []int{1}, Y: []int{3}})
	assert.Equal(t, 1, notified)
}

package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleterDeliversToPendingContinuation(t *testing.T) {
	c := NewCompleter[int]()
	var got int
	var gotErr error
	c.Future().Then(func(v int, err error) { got, gotErr = v, err })

	require.False(t, c.IsCompleted())
	c.Complete(42)

	assert.Equal(t, 42, got)
	assert.NoError(t, gotErr)
	assert.True(t, c.Future().IsDone())
}

func TestThenAfterCompletionRunsSynchronously(t *testing.T) {
	c := NewCompleter[string]()
	c.Complete("done")

	ran := false
	c.Future().Then(func(v string, err error) {
		ran = true
		assert.Equal(t, "done", v)
	})
	assert.True(t, ran)
}

func TestCompleteError(t *testing.T) {
	c := NewCompleter[int]()
	var gotErr error
	c.Future().Then(func(_ int, err error) { gotErr = err })

	c.CompleteError(fmt.Errorf("boom"))

	assert.EqualError(t, gotErr, "boom")
	_, err, ok := c.Future().Result()
	assert.True(t, ok)
	assert.EqualError(t, err, "boom")
}

func TestDoubleCompletePanics(t *testing.T) {
	c := NewCompleter[int]()
	c.Complete(1)
	assert.Panics(t, func() { c.Complete(2) })
}

func TestTryCompleteFirstWins(t *testing.T) {
	c := NewCompleter[int]()
	assert.True(t, c.TryComplete(1))
	assert.False(t, c.TryComplete(2))
	assert.False(t, c.TryCompleteError(fmt.Errorf("late")))

	v, err, ok := c.Future().Result()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRemoveDetachesContinuation(t *testing.T) {
	c := NewCompleter[int]()
	ran := false
	remove := c.Future().Then(func(int, error) { ran = true })

	remove()
	c.Complete(1)

	assert.False(t, ran)
}

func TestSnapshotRequireData(t *testing.T) {
	assert.Equal(t, "x", Done("x").RequireData())
	assert.True(t, Waiting(0).HasData())
	assert.False(t, DoneError[int](fmt.Errorf("boom")).HasData())

	assert.PanicsWithError(t, "boom", func() {
		DoneError[int](fmt.Errorf("boom")).RequireData()
	})
}

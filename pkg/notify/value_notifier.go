package notify

import "reflect"

// ValueNotifier holds a single value and notifies listeners when it changes.
// Set compares old and new with reflect.DeepEqual and stays silent when they
// are equal; use Notify to force a notification.
type ValueNotifier[T any] struct {
	Notifier
	value T
}

// NewValueNotifier creates a value notifier with the given initial value.
func NewValueNotifier[T any](initial T) *ValueNotifier[T] {
	v := &ValueNotifier[T]{value: initial}
	v.listeners = make(map[int]func())
	return v
}

// Value returns the current value.
func (v *ValueNotifier[T]) Value() T {
	return v.value
}

// Set updates the value and notifies listeners if it changed.
func (v *ValueNotifier[T]) Set(value T) {
	if reflect.DeepEqual(v.value, value) {
		return
	}
	v.value = value
	v.NotifyListeners()
}

// Notify updates the value and notifies listeners unconditionally.
func (v *ValueNotifier[T]) Notify(value T) {
	v.value = value
	v.NotifyListeners()
}

// Update applies a transformation to the current value via Set.
func (v *ValueNotifier[T]) Update(transform func(T) T) {
	v.Set(transform(v.value))
}

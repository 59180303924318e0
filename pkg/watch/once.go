package watch

// CallOnce runs fn during the first build of the component only; later
// builds skip it. An optional dispose callback runs at unmount.
func CallOnce(fn func(), dispose ...func()) {
	w := current("watch.CallOnce")
	if e := w.nextSlot(); e != nil {
		return
	}
	e := w.appendSlot(&entry{kind: kindCallOnce, handlerOnly: true})
	if len(dispose) > 0 {
		e.dispose = dispose[0]
	}
	fn()
}

// OnDispose registers a teardown callback that runs exactly once at
// unmount. Re-registration on later builds is a no-op.
func OnDispose(fn func()) {
	w := current("watch.OnDispose")
	if e := w.nextSlot(); e != nil {
		return
	}
	e := w.appendSlot(&entry{kind: kindCallOnce, handlerOnly: true})
	e.dispose = fn
}

// CreateOnce builds a value on the first build and returns the same value
// on every later build. If the value implements Disposable it is disposed
// at unmount. Use it for controllers and models whose lifetime should match
// the component:
//
//	ctrl := watch.CreateOnce(func() *ScrollModel { return NewScrollModel() })
func CreateOnce[T any](create func() T) T {
	w := current("watch.CreateOnce")
	if e := w.nextSlot(); e != nil {
		return e.lastValue.(T)
	}
	value := create()
	e := w.appendSlot(&entry{kind: kindCreateOnce, handlerOnly: true, lastValue: value})
	if d, ok := any(value).(Disposable); ok {
		e.dispose = d.Dispose
	}
	return value
}

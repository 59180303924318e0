package locator

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/watch/pkg/errors"
	"github.com/go-drift/watch/pkg/notify"
)

// AllReadySync reports whether every async registration across all scopes
// has completed successfully.
func (l *Locator) AllReadySync() bool {
	for _, sc := range l.scopes {
		for _, reg := range sc.asyncRegs {
			if !reg.isReady() {
				return false
			}
		}
	}
	return true
}

// PendingKeys returns the keys of async registrations that have not
// completed yet, for diagnostics.
func (l *Locator) PendingKeys() []string {
	var out []string
	for _, sc := range l.scopes {
		for _, key := range sc.pending.ToSlice() {
			out = append(out, key.String())
		}
	}
	return out
}

// AllReady returns a future that settles once every async registration has
// resolved. It settles with the first startup error if a registration
// failed, or with a *errors.TimeoutError if timeout is positive and elapses
// first. With no async registrations it is already settled on return.
func (l *Locator) AllReady(timeout time.Duration) *notify.Future[struct{}] {
	var regs []*registration
	for _, sc := range l.scopes {
		regs = append(regs, sc.asyncRegs...)
	}
	return awaitAll("locator.AllReady", regs, timeout)
}

// IsReadySync reports whether the registration for the given key has
// completed. Synchronous registrations are always ready. Panics for an
// unknown key.
func IsReadySync[T any](l *Locator, name ...string) bool {
	return mustFindForReadiness[T](l, "locator.IsReadySync", name...).isReady()
}

// IsReady returns a future that settles once the registration for the given
// key has resolved, with the same error semantics as AllReady.
func IsReady[T any](l *Locator, timeout time.Duration, name ...string) *notify.Future[struct{}] {
	reg := mustFindForReadiness[T](l, "locator.IsReady", name...)
	return awaitAll("locator.IsReady", []*registration{reg}, timeout)
}

func mustFindForReadiness[T any](l *Locator, op string, name ...string) *registration {
	key := keyFor[T](name...)
	reg, ok := l.find(key)
	if !ok {
		panic(&errors.UsageError{
			Op:     op,
			Reason: fmt.Sprintf("nothing registered for %s", key),
		})
	}
	return reg
}

// awaitAll aggregates the ready futures of the given registrations into one
// future. First error wins; the timeout competes with completion.
func awaitAll(op string, regs []*registration, timeout time.Duration) *notify.Future[struct{}] {
	agg := notify.NewCompleter[struct{}]()

	var mu sync.Mutex
	remaining := 0
	for _, reg := range regs {
		if reg.ready != nil {
			remaining++
		}
	}
	if remaining == 0 {
		agg.Complete(struct{}{})
		return agg.Future()
	}

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			agg.TryCompleteError(&errors.TimeoutError{Op: op, Timeout: timeout})
		})
		agg.Future().Then(func(struct{}, error) { timer.Stop() })
	}

	for _, reg := range regs {
		if reg.ready == nil {
			continue
		}
		reg.ready.Future().Then(func(_ struct{}, err error) {
			if err != nil {
				agg.TryCompleteError(err)
				return
			}
			mu.Lock()
			remaining--
			settled := remaining == 0
			mu.Unlock()
			if settled {
				agg.TryComplete(struct{}{})
			}
		})
	}
	return agg.Future()
}

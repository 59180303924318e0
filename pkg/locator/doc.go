// Package locator implements the type-and-name-keyed dependency registry the
// watch library binds components to.
//
// Objects are registered against their Go type plus an optional instance
// name, in one of four flavors:
//
//	locator.Register(l, cfg)                        // eager singleton
//	locator.RegisterLazy(l, newCache)               // created on first lookup
//	locator.RegisterFactory(l, newRequestScratch)   // fresh instance per lookup
//	locator.RegisterAsync(l, startDatabase)         // singleton that becomes ready later
//
// and resolved with Lookup:
//
//	db := locator.Lookup[*Database](l)
//	replica := locator.Lookup[*Database](l, "replica")
//
// # Readiness
//
// Async registrations signal readiness through the done callback handed to
// their start function. AllReadySync answers "is everything ready right now";
// AllReady returns a future that settles when every async registration has
// resolved, with an error if one failed or a *errors.TimeoutError if the
// configured timeout elapses first.
//
// # Scopes
//
// PushScope layers a named sub-registry on top of the stack; registrations
// land in the topmost scope and lookups search from the top down, so a scope
// can temporarily shadow longer-lived registrations. DropScope disposes the
// scope's own singletons and removes the layer. ScopeChanged exposes the
// push/pop events as a value notifier (true for a push, false for a drop).
//
// The registry itself is treated as loop-confined: register, lookup, and
// scope calls happen on the UI loop. The one concession to concurrency is
// the async done callback, which may arrive from a worker goroutine; the
// bookkeeping it touches is synchronized.
package locator

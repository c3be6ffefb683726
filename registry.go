package entitycache

import (
	"sync"

	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
Registry is the keyed factory and lifecycle owner for all cache entries.

This struct is the orchestrator that connects:
- identity (which entry belongs to which entity)
- lazy construction (entries exist only once someone asks)
- shared configuration (one policy, clock and metrics for everything)
- global invalidation (sign-out wipes the lot atomically)

External code only ever holds entry references obtained here. All
mutation goes through Get / Invalidate / the entity mutation methods,
so each entry keeps a single logical writer.
*/

// Key identifies one cache entry: an entity kind plus an identifier.
// Singletons (current user, the unfiltered list) leave ID empty.
type Key struct {
	Kind string
	ID   string
}

// Invalidator is the part of every entry the registry needs for
// lifecycle management. All entry variants satisfy it.
type Invalidator interface {
	Invalidate()
}

// Registry maps identity keys to their cache entries.
//
// Invariant: at most one entry instance exists per key for the
// registry's lifetime, until invalidation clears the mapping.
type Registry struct {
	mu      sync.Mutex
	entries map[Key]Invalidator

	policy  staleness.Policy
	clock   staleness.Clock
	metrics types.Metrics
}

// NewRegistry creates an empty registry. A nil clock falls back to the
// system clock and nil metrics to a noop, mirroring entry construction.
func NewRegistry(policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *Registry {
	if clock == nil {
		clock = staleness.SystemClock()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Registry{
		entries: make(map[Key]Invalidator),
		policy:  policy,
		clock:   clock,
		metrics: metrics,
	}
}

/*
GetOrCreate returns the entry for key, constructing it with create on
first lookup. Subsequent lookups with the same key return the SAME
instance — identity, not equality.

The caller must use one entry type per key; looking the same key up as
a different type is a programming error and panics on the assertion.

This is a package-level function rather than a method because Go
methods cannot introduce type parameters.
*/
func GetOrCreate[E Invalidator](r *Registry, key Key, create func() E) E {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[key]; ok {
		return existing.(E)
	}

	e := create()
	r.entries[key] = e
	return e
}

// Singleton returns the unkeyed entry for an entity kind (current
// user, the unfiltered collection view).
func Singleton[E Invalidator](r *Registry, kind string, create func() E) E {
	return GetOrCreate(r, Key{Kind: kind}, create)
}

// Invalidate drops the value of the entry under key, if any, and
// removes it from the mapping. Reports whether an entry existed.
func (r *Registry) Invalidate(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return false
	}
	e.Invalidate()
	delete(r.entries, key)
	return true
}

/*
InvalidateAll wipes the registry — typically on sign-out or any other
auth transition after which cached data must not survive.

BEHAVIOR:
---------
- Every entry is invalidated IN PLACE first, so references handed out
  earlier observe the invalidation on their next Get.
- The mapping is then cleared, so the next lookup builds fresh entries.

Safe to call while entries have in-flight coalesced loads: those loads
settle normally for their waiters, their results just land in entries
no live mapping retains.
*/
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.Invalidate()
	}
	r.entries = make(map[Key]Invalidator)
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

package entry

import (
	"context"
	"sync"
	"time"

	"github.com/krisalay/entity-cache/coalesce"
	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
Entry is the "brain" of the cache for ONE entity.
It is responsible for the behavior of a single cache slot, NOT for lookup.

It decides:
- When the cached value is too old to serve (staleness policy)
- When a Get must trigger a network load
- How concurrent callers share one in-flight load (coalescing)
- What happens when a load fails

It does NOT:
- Talk to the network itself (the load function does)
- Know its own identity (the registry does)
- Evict itself (entries live until explicit invalidation)
*/

// LoadFunc issues exactly one network operation and constructs the
// typed entity from the raw response. The coalescer wraps it, so a
// LoadFunc never runs twice concurrently for the same entry.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Entry caches a single value of type T with two-threshold staleness.
type Entry[T any] struct {
	mu sync.Mutex

	// value is meaningful only while present is true.
	// present is false iff the entry was never successfully
	// fetched or was explicitly invalidated.
	value   T
	present bool

	// lastUpdated advances only on a SUCCESSFUL fetch.
	lastUpdated time.Time

	// lastUsed is bumped on every Get, refresh or not.
	// Reserved for a future eviction policy; not enforced today.
	lastUsed time.Time

	load    LoadFunc[T]
	policy  staleness.Policy
	clock   staleness.Clock
	metrics types.Metrics

	// flight ensures at most one load runs at a time for this entry.
	flight coalesce.Coalescer[T]
}

// New creates a standalone entry. A nil clock falls back to the system
// clock and nil metrics fall back to a noop, so callers never have to
// care about either.
func New[T any](load LoadFunc[T], policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *Entry[T] {
	e := &Entry[T]{}
	e.init(load, policy, clock, metrics)
	return e
}

// init exists so variant types embedding Entry can set it up in place.
// Copying an initialized Entry would copy its mutex and flight state.
func (e *Entry[T]) init(load LoadFunc[T], policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) {
	if clock == nil {
		clock = staleness.SystemClock()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	e.load = load
	e.policy = policy
	e.clock = clock
	e.metrics = metrics
}

/*
Get returns the cached value, refreshing it first when the staleness
policy says so.

BEHAVIOR:
---------
A refresh happens when ANY of these hold:
1. The value is absent (never fetched, or invalidated)
2. The value is older than the soft threshold
3. force is true AND the value is older than the hard threshold

Otherwise the cached value is returned unchanged.

force corresponds to a user-initiated refresh: it lowers the staleness
bar from 60s to 5s but still never fetches a value younger than 5s.
*/
func (e *Entry[T]) Get(ctx context.Context, force bool) (T, error) {
	e.mu.Lock()
	now := e.clock.Now()
	e.lastUsed = now

	need := !e.present ||
		e.policy.IsStale(e.lastUpdated, now) ||
		(force && e.policy.IsForceStale(e.lastUpdated, now))

	if !need {
		v := e.value
		e.mu.Unlock()
		e.metrics.Hit()
		return v, nil
	}
	e.mu.Unlock()

	v, _, err := e.refresh(ctx)
	return v, err
}

/*
refresh runs ONE coalesced load and records the outcome.

Returns (value, refreshed, err):
- On success: the fresh value, refreshed=true
- On failure with a previous value present: the stale value,
  refreshed=false, nil error (stale-on-error)
- On failure with nothing cached: FetchError

The stale-on-error branch is deliberate: a transient network failure
should not blank out data the user is already looking at. The cached
value stays untouched and a later Get will try again.
*/
func (e *Entry[T]) refresh(ctx context.Context) (T, bool, error) {
	e.metrics.Miss()

	v, err := e.flight.Do(func() (T, error) {
		return e.load(ctx)
	})
	if err != nil {
		e.metrics.FetchError()

		e.mu.Lock()
		if e.present {
			stale := e.value
			e.mu.Unlock()
			return stale, false, nil
		}
		e.mu.Unlock()

		var zero T
		return zero, false, &types.FetchError{Err: err}
	}

	e.mu.Lock()
	e.value = v
	e.present = true
	e.lastUpdated = e.clock.Now()
	e.mu.Unlock()

	return v, true, nil
}

/*
Invalidate drops the cached value. The next Get refetches unconditionally.

lastUpdated is intentionally NOT reset: it records the last successful
fetch, and absence alone is enough to force the refetch.
*/
func (e *Entry[T]) Invalidate() {
	e.mu.Lock()
	var zero T
	e.value = zero
	e.present = false
	e.mu.Unlock()

	e.metrics.Invalidate()
}

// Peek returns the cached value without consulting staleness and
// without ever triggering a fetch. The second result reports whether
// a value is present at all.
func (e *Entry[T]) Peek() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.present
}

// LastUpdated returns the time of the last successful fetch.
// The zero time means the entry has never been fetched.
func (e *Entry[T]) LastUpdated() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpdated
}

// LastUsed returns the time of the most recent Get.
func (e *Entry[T]) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

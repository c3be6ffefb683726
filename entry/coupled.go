package entry

import (
	"context"

	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
Coupled is a cache entry whose refresh cadence depends on a paired
liveness status.

A finished resource is immutable — its cached body can be served
forever. A RUNNING resource changes constantly — its body goes stale on
the normal schedule. So before deciding whether to refresh, a coupled
entry first asks its status entry "is this thing still running?".

And the dependency runs both ways: once the body of a running resource
has been refreshed, the last-known status can no longer be trusted
either, so the status is force-refreshed right after.
*/
type Coupled[T any, S types.Liveness] struct {
	Entry[T]

	// status is the paired liveness entry, shared with whoever else
	// tracks the same resource. Supplied at construction, never nil.
	status *StatusEntry[S]
}

// NewCoupled creates an entry bound to the given status entry.
func NewCoupled[T any, S types.Liveness](load LoadFunc[T], status *StatusEntry[S], policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *Coupled[T, S] {
	c := &Coupled[T, S]{status: status}
	c.init(load, policy, clock, metrics)
	return c
}

/*
Get returns the cached value, consulting the paired status first.

BEHAVIOR:
---------
1. Read the paired status. This may trigger the status's own refresh
   on its own staleness schedule.
2. Refresh this entry when ANY of these hold:
   - the value is absent
   - the status says the resource is running AND the value passed
     the soft threshold
   - force is true AND the value passed the hard threshold
3. If a refresh actually happened AND it was driven by liveness or by
   the caller's force flag, cascade a forced refresh of the status.

Note the inversion versus the base entry: soft staleness alone does
NOT refresh a coupled entry. A resource that is not running cannot have
changed, so its stale body is still correct.
*/
func (c *Coupled[T, S]) Get(ctx context.Context, force bool) (T, error) {
	st, err := c.status.Get(ctx, false)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	now := c.clock.Now()
	c.lastUsed = now

	dueToLiveness := st.IsRunning() && c.policy.IsStale(c.lastUpdated, now)

	need := !c.present ||
		dueToLiveness ||
		(force && c.policy.IsForceStale(c.lastUpdated, now))

	if !need {
		v := c.value
		c.mu.Unlock()
		c.metrics.Hit()
		return v, nil
	}
	c.mu.Unlock()

	v, refreshed, err := c.refresh(ctx)
	if err != nil {
		return v, err
	}

	if refreshed && (dueToLiveness || force) {
		c.metrics.Refresh()

		// The status entry still holds the value from step 1, so its
		// stale-on-error path makes a failure here unobservable: the
		// body result above is valid either way.
		_, _ = c.status.Get(ctx, true)
	}

	return v, nil
}

// Status exposes the paired status entry, e.g. so a UI can render the
// liveness flag without another lookup.
func (c *Coupled[T, S]) Status() *StatusEntry[S] {
	return c.status
}

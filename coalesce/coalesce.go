// This file implements request coalescing for a single cache slot.
// The goal of coalescing is: "Many concurrent callers, ONE network call"

package coalesce

import "golang.org/x/sync/singleflight"

/*
Coalescer deduplicates concurrent load attempts for one cache slot.

If 100 goroutines ask for the same entity while it is being fetched,
only ONE fetch runs. Everyone else waits for that fetch and receives
the exact same value — or the exact same error.

BEHAVIOR:
---------
1. A call arrives and no fetch is in flight → it starts one
2. A call arrives while a fetch is in flight → it joins as a waiter
3. The fetch settles → every waiter gets the same result
4. State resets → the NEXT call starts a brand-new fetch

Point 4 matters for failures: a rejected fetch must not poison the
coalescer. singleflight already removes the flight before handing out
results, so a call entering during fan-out starts a new cycle instead
of being dropped or double-resolved.

No result is cached here. Caching is the caller's responsibility —
the coalescer only guarantees "at most one fetch in flight at a time".
*/
type Coalescer[T any] struct {
	sf singleflight.Group
}

// slotKey is the single key used inside the group. A Coalescer guards
// exactly one cache slot, so there is nothing else to key on.
const slotKey = "slot"

/*
Do executes load, coalescing with any load already in flight.

Every caller that joins before the in-flight load settles receives
that load's value and error. A caller arriving after it settles
triggers a fresh load.
*/
func (c *Coalescer[T]) Do(load func() (T, error)) (T, error) {
	v, err, _ := c.sf.Do(slotKey, func() (any, error) {
		return load()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

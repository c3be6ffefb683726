/*
Package entitycache is a client-side, staleness-aware cache for entities
fetched from a remote service.

It minimizes redundant network fetches while keeping displayed data
acceptably fresh, coalesces concurrent requests for the same entity into
one in-flight fetch, and lets dependent entities (a long-lived resource
and its live status) refresh each other at different cadences.

The pieces, leaf to root:

  - coalesce.Coalescer deduplicates concurrent load attempts for one
    cache slot into a single fetch, fanning the result (or failure) out
    to every waiter.
  - entry.Entry holds one entity's value and last-fetch timestamp, and
    refreshes it according to a two-threshold staleness policy (soft
    reload at 60s, forced reload at 5s).
  - entry.Coupled is an entry whose refresh cadence depends on a paired
    liveness status; entry.Collection is an entry over a list of items
    with optimistic local removal.
  - Registry is the keyed factory and lifecycle owner: lookup-or-create
    by identity, and atomic full invalidation for sign-out.

Callers ask the Registry for an entry, then call Get on it. Nothing is
persisted: this is a pure in-memory, process-lifetime cache with no
eviction other than explicit invalidation.
*/
package entitycache

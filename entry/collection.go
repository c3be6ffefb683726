package entry

import (
	"context"

	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
Collection is a cache entry holding a list of items, with two extras on
top of the base TTL behavior:

- Filtered reads bypass the cache. Only the unfiltered "all" view is
  ever cached; a scoped view is fetched fresh every time.

- Item removal is OPTIMISTIC. The cached list is edited locally before
  the remote deletion call is issued, so the UI updates instantly.

Every other mutation invalidates the whole cached list after the remote
call succeeds, rather than attempting an incremental merge. The server
may apply side effects (ordering, derived fields) that a local patch
cannot predict, so refetching is the only safe option.
*/
type Collection[I types.Item] struct {
	Entry[[]I]

	transport types.CollectionTransport[I]
}

// NewCollection creates a collection entry whose unfiltered view loads
// through the given transport.
func NewCollection[I types.Item](transport types.CollectionTransport[I], policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *Collection[I] {
	c := &Collection[I]{transport: transport}
	c.init(func(ctx context.Context) ([]I, error) {
		return transport.FetchCollection(ctx)
	}, policy, clock, metrics)
	return c
}

/*
GetFiltered returns a view of the collection.

With no filter arguments this is exactly Get on the cached "all" view.
With filter arguments it always performs a fresh scoped fetch and
leaves the cached state completely untouched — filtered views are not
cached, not even transiently.
*/
func (c *Collection[I]) GetFiltered(ctx context.Context, filter ...string) ([]I, error) {
	if len(filter) == 0 {
		return c.Get(ctx, false)
	}

	items, err := c.transport.FetchCollection(ctx, filter...)
	if err != nil {
		c.metrics.FetchError()
		return nil, &types.FetchError{Err: err}
	}
	return items, nil
}

/*
RemoveItems deletes items by identifier.

BEHAVIOR:
---------
1. If a list is cached, matching items are filtered out of it
   IMMEDIATELY — before the remote call is issued.
2. The remote deletion is then awaited and its failure returned.

There is deliberately NO rollback: if the remote deletion fails, the
local view stays ahead of the server until the next invalidation or
refresh. This is a known, documented inconsistency inherited from the
system this cache fronts — callers that care can Invalidate on error.
*/
func (c *Collection[I]) RemoveItems(ctx context.Context, ids ...string) error {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	c.mu.Lock()
	if c.present {
		kept := make([]I, 0, len(c.value))
		for _, item := range c.value {
			if _, gone := drop[item.ItemID()]; !gone {
				kept = append(kept, item)
			}
		}
		c.value = kept
	}
	c.mu.Unlock()

	return c.transport.DeleteItems(ctx, ids)
}

// CreateItem creates an item remotely, then invalidates the cached
// list so the next Get picks up the server's version of it.
func (c *Collection[I]) CreateItem(ctx context.Context, id string) error {
	if err := c.transport.CreateItem(ctx, id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

// ClaimItem claims an item remotely, then invalidates the cached list.
func (c *Collection[I]) ClaimItem(ctx context.Context, id string) error {
	if err := c.transport.ClaimItem(ctx, id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

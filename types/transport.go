package types

import "context"

/*
This file defines the contract between the cache and the remote service.

The cache NEVER talks to the network directly. It asks a transport to do it.
The transport is responsible for:
- Issuing the actual network call
- Parsing the raw response body into a typed entity
- Reporting failures as plain errors

The cache is responsible for everything else:
- Deciding WHEN a call is needed (staleness)
- Making sure concurrent callers share ONE call (coalescing)
- Holding on to the result (caching)
*/

/*
Transport is the contract for a single keyed entity (user, session, resource body).

Every method takes a context because every method may cross the network.
*/
type Transport[T any] interface {

	// FetchEntity retrieves one entity by its identifier.
	// The cache calls this only when its copy is absent or stale.
	FetchEntity(ctx context.Context, id string) (T, error)

	// MutateEntity pushes a changed payload back to the server.
	// The cache invalidates its copy after a successful mutation
	// instead of patching it locally, because the server may apply
	// side effects (derived fields, ordering) a local patch cannot predict.
	MutateEntity(ctx context.Context, id string, payload T) error
}

/*
StatusTransport fetches the liveness status paired with an entity.

Statuses are cheap and change often, so they live in their own
cache entry with their own refresh cadence.
*/
type StatusTransport[S Liveness] interface {
	FetchStatus(ctx context.Context, id string) (S, error)
}

/*
CollectionTransport is the contract for a list of items.

BEHAVIOR:
---------
- FetchCollection with no filter returns the full "all" view.
  Only this view is ever cached.
- FetchCollection with filter arguments returns a scoped view.
  Scoped views bypass the cache entirely.
- DeleteItems, CreateItem and ClaimItem are mutations. The cache
  invalidates (or optimistically edits) its copy around these calls.
*/
type CollectionTransport[I Item] interface {
	FetchCollection(ctx context.Context, filter ...string) ([]I, error)

	DeleteItems(ctx context.Context, ids []string) error

	CreateItem(ctx context.Context, id string) error

	ClaimItem(ctx context.Context, id string) error
}

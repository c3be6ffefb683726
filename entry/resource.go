package entry

import (
	"context"

	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
Resource is a cache entry for one keyed entity that also supports
pushing changes back to the server.

Mutations follow the invalidate-don't-merge rule: after a successful
MutateEntity call the cached copy is dropped, and the next Get refetches
whatever the server actually stored.
*/
type Resource[T any] struct {
	Entry[T]

	transport types.Transport[T]
	id        string
}

// NewResource creates an entry for the entity with the given identifier.
func NewResource[T any](transport types.Transport[T], id string, policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *Resource[T] {
	r := &Resource[T]{transport: transport, id: id}
	r.init(func(ctx context.Context) (T, error) {
		return transport.FetchEntity(ctx, id)
	}, policy, clock, metrics)
	return r
}

// Mutate pushes payload to the server, invalidating the cached copy on
// success. The transport error, if any, is returned as-is.
func (r *Resource[T]) Mutate(ctx context.Context, payload T) error {
	if err := r.transport.MutateEntity(ctx, r.id, payload); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// ID returns the identifier this entry was created for.
func (r *Resource[T]) ID() string {
	return r.id
}

package entitycache

import (
	"context"

	"github.com/krisalay/entity-cache/entry"
	"github.com/krisalay/entity-cache/types"
)

/*
This file wires the entry variants to the registry.

Each helper is GetOrCreate plus the right constructor, using the
registry's shared policy, clock and metrics. They exist so callers
build entries in one line instead of repeating configuration.
*/

// EntryFor returns the plain TTL entry under key, creating it from the
// given load function on first lookup.
func EntryFor[T any](r *Registry, key Key, load entry.LoadFunc[T]) *entry.Entry[T] {
	return GetOrCreate(r, key, func() *entry.Entry[T] {
		return entry.New(load, r.policy, r.clock, r.metrics)
	})
}

// ResourceFor returns the mutable keyed entity entry for id, backed by
// the given transport.
func ResourceFor[T any](r *Registry, transport types.Transport[T], kind, id string) *entry.Resource[T] {
	return GetOrCreate(r, Key{Kind: kind, ID: id}, func() *entry.Resource[T] {
		return entry.NewResource(transport, id, r.policy, r.clock, r.metrics)
	})
}

// StatusFor returns the liveness status entry paired with the entity
// id. Several entity entries may share the one status entry this
// returns; the registry guarantees there is never more than one.
func StatusFor[S types.Liveness](r *Registry, transport types.StatusTransport[S], kind, id string) *entry.StatusEntry[S] {
	return GetOrCreate(r, Key{Kind: kind, ID: id}, func() *entry.StatusEntry[S] {
		return entry.NewStatus(func(ctx context.Context) (S, error) {
			return transport.FetchStatus(ctx, id)
		}, r.policy, r.clock, r.metrics)
	})
}

// CoupledFor returns the status-coupled entry for id, bound to the
// given status entry (usually obtained from StatusFor).
func CoupledFor[T any, S types.Liveness](r *Registry, load entry.LoadFunc[T], status *entry.StatusEntry[S], kind, id string) *entry.Coupled[T, S] {
	return GetOrCreate(r, Key{Kind: kind, ID: id}, func() *entry.Coupled[T, S] {
		return entry.NewCoupled(load, status, r.policy, r.clock, r.metrics)
	})
}

// CollectionFor returns the singleton collection entry for an entity
// kind. Only the unfiltered view is cached, so collections are unkeyed.
func CollectionFor[I types.Item](r *Registry, transport types.CollectionTransport[I], kind string) *entry.Collection[I] {
	return Singleton(r, kind, func() *entry.Collection[I] {
		return entry.NewCollection(transport, r.policy, r.clock, r.metrics)
	})
}

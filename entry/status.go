package entry

import (
	"github.com/krisalay/entity-cache/staleness"
	"github.com/krisalay/entity-cache/types"
)

/*
StatusEntry caches the liveness status paired with a long-lived resource.

A status is just a regular entry whose value can answer IsRunning.
It exists as its own type so status-coupled entries can force-refresh
it through a typed reference, and so several entity entries can share
ONE status entry (many entries → one status, never the reverse).
*/
type StatusEntry[S types.Liveness] struct {
	Entry[S]
}

// NewStatus creates a status entry. Statuses usually get a tighter
// policy than their resource bodies because they change more often.
func NewStatus[S types.Liveness](load LoadFunc[S], policy staleness.Policy, clock staleness.Clock, metrics types.Metrics) *StatusEntry[S] {
	s := &StatusEntry[S]{}
	s.init(load, policy, clock, metrics)
	return s
}

package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a Get is served from the cached value without a fetch.
	Hit()

	// Miss is called when a Get decides it must load (value absent or stale).
	Miss()

	// Refresh is called when a status-coupled entry cascades a forced
	// refresh of its paired status.
	Refresh()

	// FetchError is called when an underlying load fails.
	FetchError()

	// Invalidate is called when an entry's value is explicitly dropped.
	Invalidate()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache
to implement metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation
that simply ignores all metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Refresh()    {}
func (NoopMetrics) FetchError() {}
func (NoopMetrics) Invalidate() {}

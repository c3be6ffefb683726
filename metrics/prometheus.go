package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
Prometheus implements types.Metrics on a private prometheus registry.

A private registry (instead of prometheus.DefaultRegisterer) keeps the
cache's counters isolated from whatever else the embedding process
registers, and lets tests create as many instances as they like without
duplicate-registration panics.
*/
type Prometheus struct {
	registry *prometheus.Registry

	hits          prometheus.Counter
	misses        prometheus.Counter
	refreshes     prometheus.Counter
	fetchErrors   prometheus.Counter
	invalidations prometheus.Counter
}

// NewPrometheus creates the counter set on a fresh registry.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()

	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entitycache_hits_total",
		Help: "Gets served from the cached value without a fetch",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entitycache_misses_total",
		Help: "Gets that decided to load (value absent or stale)",
	})
	refreshes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entitycache_status_refreshes_total",
		Help: "Cascaded forced refreshes of a paired status entry",
	})
	fetchErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entitycache_fetch_errors_total",
		Help: "Underlying loads that failed",
	})
	invalidations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "entitycache_invalidations_total",
		Help: "Entries whose value was explicitly dropped",
	})

	registry.MustRegister(hits, misses, refreshes, fetchErrors, invalidations)

	return &Prometheus{
		registry:      registry,
		hits:          hits,
		misses:        misses,
		refreshes:     refreshes,
		fetchErrors:   fetchErrors,
		invalidations: invalidations,
	}
}

func (p *Prometheus) Hit()        { p.hits.Inc() }
func (p *Prometheus) Miss()       { p.misses.Inc() }
func (p *Prometheus) Refresh()    { p.refreshes.Inc() }
func (p *Prometheus) FetchError() { p.fetchErrors.Inc() }
func (p *Prometheus) Invalidate() { p.invalidations.Inc() }

// Handler serves this instance's counters in the prometheus exposition
// format, for mounting wherever the embedding process exposes metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests that want
// to Gather and assert on counter values.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

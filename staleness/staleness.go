// This file defines when a cached entity is considered "too old to trust".

package staleness

import "time"

/*
The cache uses TWO thresholds instead of one:

- ReloadTimeout (soft, default 60s):
  Past this age, any Get refreshes the entry.

- ForceReloadTimeout (hard, default 5s):
  Past this age, a Get that EXPLICITLY asks for fresh data
  (a user-initiated refresh) also triggers a reload.

So a plain read tolerates up to 60 seconds of staleness, while an
explicit refresh tolerates only 5. Anything younger than 5 seconds is
served from cache no matter what — even a user mashing the refresh
button cannot generate a fetch storm.
*/
const (
	DefaultReloadTimeout      = 60 * time.Second
	DefaultForceReloadTimeout = 5 * time.Second
)

// Clock provides time to the staleness checks.
// The default implementation uses time.Now(); tests substitute their own.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the wall-clock implementation of Clock.
func SystemClock() Clock {
	return systemClock{}
}

// Policy holds the two staleness thresholds for one entry family.
// The zero value of either field falls back to the default.
type Policy struct {
	ReloadTimeout      time.Duration
	ForceReloadTimeout time.Duration
}

// Default returns the standard 60s/5s policy.
func Default() Policy {
	return Policy{
		ReloadTimeout:      DefaultReloadTimeout,
		ForceReloadTimeout: DefaultForceReloadTimeout,
	}
}

// IsStale reports whether a value last updated at lastUpdated has
// passed the soft threshold. A zero lastUpdated (never fetched) is
// always stale.
func (p Policy) IsStale(lastUpdated, now time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return now.Sub(lastUpdated) > p.reloadTimeout()
}

// IsForceStale reports whether the value has passed the hard threshold
// that gates caller-forced refreshes.
func (p Policy) IsForceStale(lastUpdated, now time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return now.Sub(lastUpdated) > p.forceReloadTimeout()
}

func (p Policy) reloadTimeout() time.Duration {
	if p.ReloadTimeout <= 0 {
		return DefaultReloadTimeout
	}
	return p.ReloadTimeout
}

func (p Policy) forceReloadTimeout() time.Duration {
	if p.ForceReloadTimeout <= 0 {
		return DefaultForceReloadTimeout
	}
	return p.ForceReloadTimeout
}

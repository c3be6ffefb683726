package types

/*
This file defines how fetch failures surface to callers.

There are only two failure modes in this system:
- The transport failed (network, protocol, server error)
- The cache has no value (absence)

Absence is handled internally — it simply triggers a fetch — and is
never surfaced. Transport failures ARE surfaced, wrapped in FetchError
so callers can distinguish "the cache layer failed to load" from their
own errors while still reaching the underlying cause with errors.Is/As.
*/

// FetchError reports that a load failed and no cached value could be served.
type FetchError struct {
	// Err is the underlying transport error.
	Err error
}

func (e *FetchError) Error() string {
	return "entity fetch failed: " + e.Err.Error()
}

// Unwrap exposes the transport error to errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

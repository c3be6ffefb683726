package types

// Liveness is implemented by status values that can say whether the
// resource they describe is still running. A running resource can change
// at any moment, so entries paired with a live status refresh more eagerly.
type Liveness interface {
	IsRunning() bool
}

// Item is implemented by collection members so the cache can remove
// them locally by identifier without knowing anything else about them.
type Item interface {
	ItemID() string
}

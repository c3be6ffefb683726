package entitycache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	entitycache "github.com/krisalay/entity-cache"
	"github.com/krisalay/entity-cache/entry"
	"github.com/krisalay/entity-cache/staleness"
)

//
// ================= TEST CLOCK =================
//

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingLoad returns a load function that counts its invocations.
func countingLoad(value string, calls *atomic.Int32) entry.LoadFunc[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

//
// ================= TEST ENTITY TRANSPORT =================
//

type user struct {
	name string
}

type fakeUserTransport struct {
	mu      sync.Mutex
	users   map[string]user
	fetches int
	mutated []string
}

func (t *fakeUserTransport) FetchEntity(ctx context.Context, id string) (user, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetches++
	return t.users[id], nil
}

func (t *fakeUserTransport) MutateEntity(ctx context.Context, id string, payload user) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[id] = payload
	t.mutated = append(t.mutated, id)
	return nil
}

//
// ================= IDENTITY =================
//

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	r := entitycache.NewRegistry(staleness.Default(), newFakeClock(), nil)
	var calls atomic.Int32

	key := entitycache.Key{Kind: "run", ID: "r1"}
	a := entitycache.EntryFor(r, key, countingLoad("v", &calls))
	b := entitycache.EntryFor(r, key, countingLoad("v", &calls))

	if a != b {
		t.Fatal("same key must return the same entry instance")
	}

	other := entitycache.EntryFor(r, entitycache.Key{Kind: "run", ID: "r2"}, countingLoad("v", &calls))
	if other == a {
		t.Fatal("different keys must not share an entry")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}
}

func TestSingletonIsSharedPerKind(t *testing.T) {
	r := entitycache.NewRegistry(staleness.Default(), newFakeClock(), nil)
	var calls atomic.Int32

	a := entitycache.Singleton(r, "current-user", func() *entry.Entry[string] {
		return entry.New(countingLoad("me", &calls), staleness.Default(), newFakeClock(), nil)
	})
	b := entitycache.Singleton(r, "current-user", func() *entry.Entry[string] {
		return entry.New(countingLoad("me", &calls), staleness.Default(), newFakeClock(), nil)
	})

	if a != b {
		t.Fatal("singleton lookups must share one instance")
	}
}

//
// ================= INVALIDATION =================
//

func TestInvalidateAllForcesRefetchOnHeldReferences(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	r := entitycache.NewRegistry(staleness.Default(), clock, nil)
	var calls atomic.Int32

	key := entitycache.Key{Kind: "run", ID: "r1"}
	e := entitycache.EntryFor(r, key, countingLoad("v", &calls))
	e.Get(ctx, false)

	// one second later we are deep inside the staleness window: without
	// the invalidation this get would be a pure cache hit
	clock.Advance(time.Second)
	r.InvalidateAll()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", r.Len())
	}

	// the previously handed-out reference observes the invalidation
	e.Get(ctx, false)
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected a fresh fetch after InvalidateAll, got %d loads", got)
	}

	// and the next registry lookup builds a brand-new entry
	fresh := entitycache.EntryFor(r, key, countingLoad("v", &calls))
	if fresh == e {
		t.Fatal("lookup after InvalidateAll returned the dropped instance")
	}
}

func TestTargetedInvalidate(t *testing.T) {
	ctx := context.Background()
	r := entitycache.NewRegistry(staleness.Default(), newFakeClock(), nil)
	var calls atomic.Int32

	key := entitycache.Key{Kind: "run", ID: "r1"}
	e := entitycache.EntryFor(r, key, countingLoad("v", &calls))
	e.Get(ctx, false)

	if !r.Invalidate(key) {
		t.Fatal("expected the entry to exist")
	}
	if r.Invalidate(key) {
		t.Fatal("entry should already be gone")
	}

	e.Get(ctx, false)
	if calls.Load() != 2 {
		t.Fatal("held reference did not observe targeted invalidation")
	}
}

func TestInvalidateAllDuringInFlightLoad(t *testing.T) {
	ctx := context.Background()
	r := entitycache.NewRegistry(staleness.Default(), newFakeClock(), nil)

	gate := make(chan struct{})
	e := entitycache.EntryFor(r, entitycache.Key{Kind: "run", ID: "r1"}, func(ctx context.Context) (string, error) {
		<-gate
		return "late", nil
	})

	done := make(chan string, 1)
	go func() {
		v, _ := e.Get(ctx, false)
		done <- v
	}()

	time.Sleep(20 * time.Millisecond)
	r.InvalidateAll()
	close(gate)

	// the in-flight load settles normally for its waiter; its result is
	// simply no longer retained in any live mapping
	if v := <-done; v != "late" {
		t.Fatalf("in-flight load did not settle normally: %q", v)
	}
	if r.Len() != 0 {
		t.Fatal("registry retained entries across InvalidateAll")
	}
}

//
// ================= ENTITY WIRING =================
//

func TestResourceForFetchesAndMutates(t *testing.T) {
	ctx := context.Background()
	transport := &fakeUserTransport{users: map[string]user{"u1": {name: "alice"}}}
	r := entitycache.NewRegistry(staleness.Default(), newFakeClock(), nil)

	res := entitycache.ResourceFor[user](r, transport, "user", "u1")

	got, err := res.Get(ctx, false)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.name != "alice" {
		t.Fatalf("expected alice, got %v", got)
	}

	// mutation invalidates; the next get sees the server's version
	if err := res.Mutate(ctx, user{name: "bob"}); err != nil {
		t.Fatalf("mutate failed: %v", err)
	}
	if _, ok := res.Peek(); ok {
		t.Fatal("cached copy survived a mutation")
	}

	got, _ = res.Get(ctx, false)
	if got.name != "bob" {
		t.Fatalf("expected bob after mutation, got %v", got)
	}
	if transport.fetches != 2 {
		t.Fatalf("expected 2 fetches, got %d", transport.fetches)
	}
}

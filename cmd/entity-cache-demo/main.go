package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	entitycache "github.com/krisalay/entity-cache"
	"github.com/krisalay/entity-cache/entry"
	"github.com/krisalay/entity-cache/metrics"
	"github.com/krisalay/entity-cache/staleness"
)

// ================= FAKE REMOTE SERVICE =================

type experiment struct {
	id   string
	name string
}

func (e experiment) ItemID() string { return e.id }

type runStatus struct {
	running bool
}

func (s runStatus) IsRunning() bool { return s.running }

// remoteService stands in for the real transport layer and logs every
// network call it receives, so the demo output shows exactly which
// operations reached the "server".
type remoteService struct {
	mu          sync.Mutex
	experiments []experiment
	running     bool
}

func (s *remoteService) FetchCollection(ctx context.Context, filter ...string) ([]experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(filter) > 0 {
		fmt.Println("SERVER → fetch experiments (filtered:", filter, ")")
	} else {
		fmt.Println("SERVER → fetch experiments")
	}
	return append([]experiment(nil), s.experiments...), nil
}

func (s *remoteService) DeleteItems(ctx context.Context, ids []string) error {
	fmt.Println("SERVER → delete", ids)
	time.Sleep(50 * time.Millisecond) // pretend the network is slow
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.experiments[:0]
	for _, e := range s.experiments {
		drop := false
		for _, id := range ids {
			if e.id == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	s.experiments = kept
	return nil
}

func (s *remoteService) CreateItem(ctx context.Context, id string) error {
	fmt.Println("SERVER → create", id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experiments = append(s.experiments, experiment{id: id, name: "exp-" + id})
	return nil
}

func (s *remoteService) ClaimItem(ctx context.Context, id string) error {
	fmt.Println("SERVER → claim", id)
	return nil
}

func (s *remoteService) FetchStatus(ctx context.Context, id string) (runStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Println("SERVER → fetch status of", id)
	return runStatus{running: s.running}, nil
}

func (s *remoteService) fetchBody(id string) entry.LoadFunc[string] {
	return func(ctx context.Context) (string, error) {
		fmt.Println("SERVER → fetch body of", id)
		return "metrics for " + id, nil
	}
}

// ================= MAIN =================

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("SOFT RELOAD  : 60s")
	fmt.Println("FORCE RELOAD : 5s")
	fmt.Println("METRICS      : prometheus")

	server := &remoteService{
		experiments: []experiment{{"e1", "mnist"}, {"e2", "cifar"}, {"e3", "imagenet"}},
		running:     true,
	}

	prom := metrics.NewPrometheus()
	registry := entitycache.NewRegistry(staleness.Default(), nil, prom)

	// ====================================================
	fmt.Println("\n==================== 1) MISS THEN HIT ====================")

	list := entitycache.CollectionFor[experiment](registry, server, "experiments")

	items, _ := list.Get(ctx, false)
	fmt.Println("CACHE  → GET experiments =", len(items), "items (miss)")

	items, _ = list.Get(ctx, false)
	fmt.Println("CACHE  → GET experiments =", len(items), "items (hit, no server call)")

	// ====================================================
	fmt.Println("\n==================== 2) COALESCING ====================")

	status := entitycache.StatusFor[runStatus](registry, server, "run-status", "e1")
	body := entitycache.CoupledFor(registry, server.fetchBody("e1"), status, "run", "e1")

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			v, _ := body.Get(ctx, false)
			fmt.Printf("GOROUTINE-%d → GET run e1 = %q\n", id, v)
		}(i)
	}
	wg.Wait()
	fmt.Println("CACHE  → 5 concurrent callers, one body fetch, one status fetch")

	// ====================================================
	fmt.Println("\n==================== 3) OPTIMISTIC REMOVAL ====================")

	_ = list.RemoveItems(ctx, "e2")
	cached, _ := list.Peek()
	fmt.Println("CACHE  → experiments after local remove =", len(cached), "items (server confirmed later)")

	// ====================================================
	fmt.Println("\n==================== 4) MUTATION INVALIDATES ====================")

	_ = list.CreateItem(ctx, "e4")
	items, _ = list.Get(ctx, false)
	fmt.Println("CACHE  → GET experiments after create =", len(items), "items (refetched)")

	// ====================================================
	fmt.Println("\n==================== 5) SIGN-OUT ====================")

	registry.InvalidateAll()
	fmt.Println("CACHE  → InvalidateAll (auth transition)")

	items, _ = list.Get(ctx, false)
	fmt.Println("CACHE  → GET experiments after sign-out =", len(items), "items (fresh fetch)")

	// ====================================================
	fmt.Println("\n==================== METRICS ====================")

	families, _ := prom.Registry().Gather()
	for _, f := range families {
		for _, m := range f.GetMetric() {
			fmt.Printf("%-38s %v\n", f.GetName(), m.GetCounter().GetValue())
		}
	}
}

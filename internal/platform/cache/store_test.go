package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected value")

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got, _ := v.(string); got != "cached" {
		t.Fatalf("got %q, want cached", got)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_Get_ExpiredEntryIsNeverReturned(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	store := NewStore(10*time.Minute, WithClock(clock))
	store.Set(context.Background(), "results:tennis:2025-04-10", "snapshot")

	if _, ok := store.Get(context.Background(), "results:tennis:2025-04-10"); !ok {
		t.Fatal("fresh entry should be returned")
	}

	advance(10*time.Minute + time.Second)

	if _, ok := store.Get(context.Background(), "results:tennis:2025-04-10"); ok {
		t.Fatal("expired entry must not be returned")
	}
}

func TestStore_GetOrLoad_RefetchesAfterExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store := NewStore(time.Minute, WithClock(clock))
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first load: %v", err)
	}

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, _ := v.(int32); got != 2 {
		t.Fatalf("got %d, want fresh value 2", got)
	}
}

func TestStore_PruneExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store := NewStore(time.Minute, WithClock(clock))
	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)

	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	store.Set(context.Background(), "c", 3)

	if removed := store.PruneExpired(context.Background()); removed != 2 {
		t.Fatalf("pruned %d entries, want 2", removed)
	}
	if _, ok := store.Get(context.Background(), "c"); !ok {
		t.Fatal("fresh entry should survive pruning")
	}
}

package resilience

import "sync"

// SingleFlight collapses concurrent lookups for one key into a single call.
// The results cache leans on it when several reconcile requests miss on the
// same (sport, date) at once: one goroutine hits the feed, the rest wait and
// share its outcome.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done sync.WaitGroup
	val  any
	err  error
}

// Do runs fn for key unless an identical call is already in flight, in which
// case it blocks and returns that call's result. The third return value
// reports whether the result was shared.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight)
	}

	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		f.done.Wait()
		return f.val, f.err, true
	}

	f := &flight{}
	f.done.Add(1)
	g.inflight[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	f.done.Done()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return f.val, f.err, false
}

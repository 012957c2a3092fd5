package ratelimit

import (
	"context"
	"sync"
	"time"
)

// evictInterval is how often Incr sweeps expired windows out of the map.
// Sweeping inline keeps the store free of background goroutines.
const evictInterval = 5 * time.Minute

// window is one fixed-window counter.
type window struct {
	start time.Time
	size  time.Duration
	count int64
}

// MemoryCounterStore implements CounterStore in process memory. Suitable for
// single-node deployments and tests; multi-replica deployments need the Redis
// store so the budget is shared.
type MemoryCounterStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Incr mirrors the Redis script semantics under a single mutex: reset on an
// elapsed window, increment while below max, deny without incrementing at max.
func (s *MemoryCounterStore) Incr(
	ctx context.Context,
	key string,
	max int64,
	windowSize time.Duration,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= w.size {
		s.windows[key] = &window{start: now, size: windowSize, count: 1}
		return true, nil
	}

	if w.count >= max {
		return false, nil
	}

	w.count++
	return true, nil
}

// evictExpired drops elapsed windows so the map does not grow one entry per
// (subject, endpoint) forever. Redis handles this with key TTLs; here a sweep
// runs at most once per evictInterval. Caller holds the mutex.
func (s *MemoryCounterStore) evictExpired(now time.Time) {
	if now.Sub(s.lastSweep) < evictInterval {
		return
	}
	s.lastSweep = now

	for key, w := range s.windows {
		if now.Sub(w.start) >= w.size {
			delete(s.windows, key)
		}
	}
}

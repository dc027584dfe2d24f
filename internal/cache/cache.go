// Package cache provides the in-process, time-bounded memoization layer in
// front of the aggregation pipeline.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mweinberg/fecwatch/internal/types"
)

// DefaultTTL matches the five-minute window the site has always used.
const DefaultTTL = 5 * time.Minute

// Key builds the cache key for one person and one cycle selector. The
// selector goes in verbatim, never its resolved years: "2024" and "last3"
// must stay distinct keys even when their resolved windows overlap.
func Key(personID, cycleSelector string) string {
	return personID + "|" + cycleSelector
}

type entry struct {
	result    types.AggregateResult
	expiresAt time.Time
}

// Store is a mutex-guarded TTL map of aggregate results. Concurrent misses
// for the same key are coalesced onto one computation via singleflight;
// misses for different keys run independently and never block each other.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	group   singleflight.Group

	// now is swappable so tests can age entries without sleeping.
	now func() time.Time
}

// New creates a store with the given TTL; ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live entry for key, if any. Expired entries read as
// misses and are evicted lazily.
func (s *Store) Get(key string) (types.AggregateResult, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return types.AggregateResult{}, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a writer may have refreshed it.
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return types.AggregateResult{}, false
	}
	return e.result, true
}

// Set stores a result under key with a fresh TTL. Last writer wins; the
// result of a duplicate concurrent computation is identical anyway.
func (s *Store) Set(key string, result types.AggregateResult) {
	s.mu.Lock()
	s.entries[key] = entry{result: result, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// GetOrCompute returns the cached result for key, or runs compute exactly
// once for all concurrent callers of the same key and caches its result.
// Compute errors are not cached; the next caller retries.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (types.AggregateResult, error)) (types.AggregateResult, error) {
	if res, ok := s.Get(key); ok {
		return res, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Another flight may have populated the entry between the miss and
		// acquiring the flight.
		if res, ok := s.Get(key); ok {
			return res, nil
		}
		res, err := compute(ctx)
		if err != nil {
			return types.AggregateResult{}, err
		}
		s.Set(key, res)
		return res, nil
	})
	if err != nil {
		return types.AggregateResult{}, err
	}
	return v.(types.AggregateResult), nil
}

// Invalidate removes the entry for key, forcing the next request to
// recompute.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Purge drops every entry.
func (s *Store) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len reports the number of stored entries, live or expired.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SetClock replaces the store's time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

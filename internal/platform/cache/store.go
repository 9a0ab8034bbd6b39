package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/platform/resilience"
)

var errNilLoader = errors.New("cache: loader is required")

// Stats counts lookups served by GetOrLoad.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

type item[V any] struct {
	value V
	// zero means no expiry
	deadline time.Time
}

func (it item[V]) live(now time.Time) bool {
	return it.deadline.IsZero() || now.Before(it.deadline)
}

// Store is an in-process TTL cache of V keyed by string. Concurrent misses
// on one key share a single load. A ttl <= 0 keeps entries until evicted.
type Store[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight

	mu    sync.RWMutex
	items map[string]item[V]
	// epoch advances on every eviction; loads that began in an older
	// epoch return their value without storing it.
	epoch atomic.Uint64

	hits, misses atomic.Int64
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]item[V]),
	}
}

func (s *Store[V]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Entries: len(s.items)}
}

// Get returns a live entry. Expired entries are dropped on read.
func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	switch {
	case !ok:
		return zero, false
	case !it.live(s.now()):
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.deadline.Equal(it.deadline) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return it.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	it := item[V]{value: value}
	if s.ttl > 0 {
		it.deadline = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.evict(func(k string) bool { return k == key })
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.evict(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

func (s *Store[V]) evict(match func(string) bool) {
	s.mu.Lock()
	for key := range s.items {
		if match(key) {
			delete(s.items, key)
			s.flight.Forget(key)
		}
	}
	s.epoch.Add(1)
	s.mu.Unlock()
}

// GetOrLoad serves key from the cache or runs loader once for all concurrent
// callers. Loader errors are returned and never cached. An empty key bypasses
// the cache.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, errNilLoader
	}
	if key == "" {
		return loader(ctx)
	}

	if v, ok := s.Get(ctx, key); ok {
		s.hits.Add(1)
		return v, nil
	}
	s.misses.Add(1)

	shared, err, _ := s.flight.Do(ctx, key, func() (any, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}
		epoch := s.epoch.Load()
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if s.epoch.Load() == epoch {
			s.Set(ctx, key, v)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, _ := shared.(V)
	return v, nil
}

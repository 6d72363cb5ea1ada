// Package cache provides the short-TTL response cache sitting in front of
// record store reads. It combines two mechanisms:
//
//   - a TTL cache of completed successful responses, so repeated dashboard
//     refreshes within the TTL cost no upstream calls, and
//   - in-flight request collapsing via singleflight, so concurrent reads of
//     the same resource key share one upstream fetch.
//
// The correctness property is that at most one upstream fetch per key is
// outstanding at any instant. Failed fetches are never cached; the next
// read retries upstream. Writes do not invalidate entries; staleness is
// bounded by the TTL only.
//
// The cache is an explicit process-scoped object: construct it at startup,
// run the sweep with StartSweeper, and inject it into handlers.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "record_cache_hits_total",
		Help: "Reads served from the response cache.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "record_cache_misses_total",
		Help: "Reads that required an upstream fetch.",
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses)
}

// FetchFunc performs the upstream read for a resource key.
type FetchFunc func(ctx context.Context) (any, error)

// entry is one cached successful response.
type entry struct {
	payload  any
	storedAt time.Time
}

// Cache is a TTL response cache with in-flight request collapsing.
// It is safe for concurrent use.
type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time // injectable clock for tests
}

// New constructs a Cache with the given TTL. TTL values <= 0 are coerced
// to 30 seconds.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Fetch returns the payload for key, serving from cache when a fresh entry
// exists, joining an in-flight fetch when one is outstanding, and invoking
// fn otherwise. Only successful results are stored.
func (c *Cache) Fetch(ctx context.Context, key string, fn FetchFunc) (any, error) {
	if payload, ok := c.lookup(key); ok {
		cacheHits.Inc()
		return payload, nil
	}
	cacheMisses.Inc()

	// singleflight guarantees one execution per key among concurrent
	// callers; the in-flight marker is dropped on completion for both
	// success and failure.
	v, err, _ := c.group.Do(key, func() (any, error) {
		// A racing caller may have populated the cache between our lookup
		// and joining the group.
		if payload, ok := c.lookup(key); ok {
			return payload, nil
		}
		payload, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate drops the entry for key, if any. Not used on the write path
// (staleness is TTL-bounded) but available to tests and admin tooling.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper runs a background eviction loop that removes expired
// entries every TTL interval, bounding memory. It stops when ctx is
// cancelled.
func (c *Cache) StartSweeper(ctx context.Context) {
	go func() {
		t := time.NewTicker(c.ttl)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.sweep()
			}
		}
	}()
}

// lookup returns the cached payload for key when it is still fresh.
func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.payload, true
}

// store records a successful fetch result.
func (c *Cache) store(key string, payload any) {
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, storedAt: c.now()}
	c.mu.Unlock()
}

// sweep evicts entries older than the TTL.
func (c *Cache) sweep() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Package cache is the process-wide TTL cache for aggregated responses.
//
// Every entry carries its own TTL. Expiry is checked on every read, and a
// sweeper removes expired entries at a fixed interval so memory stays bounded
// between reads. There is no capacity limit and no LRU ordering.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/ddevcap/steam-profile-api/metrics"
)

// DefaultSweepInterval is used when New is given a non-positive interval.
const DefaultSweepInterval = 5 * time.Minute

// Entry is a cached value together with its lifetime.
type Entry[V any] struct {
	Value     V
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Cache maps string keys to values of type V.
type Cache[V any] struct {
	items    *ttlcache.Cache[string, V]
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty cache. Call Start to run the background sweeper.
func New[V any](sweepInterval time.Duration) *Cache[V] {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	items := ttlcache.New[string, V](
		// Reads must never extend an entry's lifetime.
		ttlcache.WithDisableTouchOnHit[string, V](),
	)
	items.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, V]) {
		metrics.RecordCacheEviction(evictionLabel(reason, item))
	})
	return &Cache[V]{items: items, interval: sweepInterval}
}

// Get returns the value stored under key. An expired entry is deleted and
// reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	item := c.items.Get(key)
	if item == nil {
		var zero V
		// Get hides expired items; drop the stale one now rather than at
		// the next sweep.
		c.drop(key)
		return zero, false
	}
	return item.Value(), true
}

// Peek is Get plus the entry's timestamps.
func (c *Cache[V]) Peek(key string) (Entry[V], bool) {
	item := c.items.Get(key)
	if item == nil {
		c.drop(key)
		return Entry[V]{}, false
	}
	return Entry[V]{
		Value:     item.Value(),
		StoredAt:  item.ExpiresAt().Add(-item.TTL()),
		ExpiresAt: item.ExpiresAt(),
	}, true
}

// Set stores value under key for ttl, replacing any existing entry.
// A non-positive ttl is a no-op.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.items.Set(key, value, ttl)
	metrics.SetCacheItems(c.items.Len())
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) {
	c.drop(key)
}

func (c *Cache[V]) drop(key string) {
	c.items.Delete(key)
	metrics.SetCacheItems(c.items.Len())
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.items.DeleteAll()
	metrics.SetCacheItems(0)
}

// ExpiryOf returns when the entry under key expires.
func (c *Cache[V]) ExpiryOf(key string) (time.Time, bool) {
	e, ok := c.Peek(key)
	if !ok {
		return time.Time{}, false
	}
	return e.ExpiresAt, true
}

// Len returns the number of stored entries, including expired entries the
// sweeper has not reached yet.
func (c *Cache[V]) Len() int {
	return c.items.Len()
}

// Sweep deletes every expired entry.
func (c *Cache[V]) Sweep() {
	c.items.DeleteExpired()
	metrics.SetCacheItems(c.items.Len())
}

// Start launches the sweeper, which calls Sweep every interval until ctx is
// cancelled or Stop is called. Calling Start on a running cache is a no-op.
func (c *Cache[V]) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}(c.done)
}

// Stop halts the sweeper and waits for it to exit.
func (c *Cache[V]) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func evictionLabel[V any](reason ttlcache.EvictionReason, item *ttlcache.Item[string, V]) string {
	switch reason {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	}
	if item.IsExpired() {
		return "expired"
	}
	return "deleted"
}

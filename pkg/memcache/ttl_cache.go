// pkg/memcache/ttl_cache.go
package mem

import (
	"sync"
	"time"
)

// Clock lets tests move time forward without sleeping.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a small in-process cache whose entries expire after a fixed
// time to live. Expired entries are removed lazily on access.
type TTLCache[V any] struct {
	mu    sync.RWMutex
	data  map[string]entry[V]
	ttl   time.Duration
	clock Clock
}

func NewTTLCache[V any](ttl time.Duration, clock Clock) *TTLCache[V] {
	if clock == nil {
		clock = time.Now
	}
	return &TTLCache[V]{
		data:  make(map[string]entry[V]),
		ttl:   ttl,
		clock: clock,
	}
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[V]{value: value, expiresAt: c.clock().Add(c.ttl)}
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !c.clock().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.data[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// GetOrLoad returns the cached value or stores the result of load. Loader
// errors are not cached.
func (c *TTLCache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

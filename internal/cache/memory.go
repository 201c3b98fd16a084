// Package cache provides the product cache implementations: an in-process
// TTL map and a Redis-backed variant. Both satisfy catalog.ProductCache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

const DefaultTTL = 60 * time.Second

type entry struct {
	product    catalog.Product
	insertedAt time.Time
}

// MemoryCache holds one entry per product id, expired lazily on read.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex
	m  map[int]entry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
		m:   map[int]entry{},
	}
}

func (c *MemoryCache) Get(ctx context.Context, id int) (catalog.Product, bool, error) {
	c.mu.RLock()
	e, ok := c.m[id]
	c.mu.RUnlock()

	if !ok {
		return catalog.Product{}, false, nil
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a fresher Set may have landed.
		if cur, ok := c.m[id]; ok && cur.insertedAt.Equal(e.insertedAt) {
			delete(c.m, id)
		}
		c.mu.Unlock()
		return catalog.Product{}, false, nil
	}
	return e.product, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, id int, p catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = entry{product: p, insertedAt: c.now()}
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

// RedisCache keys serialized products under product:<id> with a TTL, so
// multiple storefront instances share one cache. A missing key is a miss,
// not an error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}
	}

	return &RedisCache{client: redis.NewClient(opts), ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) Get(ctx context.Context, id int) (catalog.Product, bool, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err == redis.Nil {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, fmt.Errorf("redis get: %w", err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return catalog.Product{}, false, fmt.Errorf("decode cached product: %w", err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, id int, p catalog.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if err := c.client.Set(ctx, productKey(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, id int) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

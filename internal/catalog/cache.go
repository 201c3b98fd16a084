package catalog

import "context"

// ProductCache is an advisory per-product cache over the catalog store.
// The catalog document is always the source of truth; a cache may serve a
// value that is stale within its TTL window, but every catalog mutation
// invalidates the affected entry synchronously before the mutation is
// considered complete.
//
// Implementations live in internal/cache. A nil cache disables caching.
type ProductCache interface {
	Get(ctx context.Context, id int) (Product, bool, error)
	Set(ctx context.Context, id int, p Product) error
	Invalidate(ctx context.Context, id int) error
}

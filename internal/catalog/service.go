package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service owns the catalog read and mutation paths. Every mutation is a
// single read-modify-write of the whole catalog document; see CatalogStore
// for the concurrent-writer caveat.
type Service struct {
	Store *CatalogStore
	Cache ProductCache // nil disables caching
	Log   *zap.Logger
}

func NewService(store *CatalogStore, cache ProductCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Cache: cache, Log: log}
}

// LoadCatalog returns the whole catalog document. A missing document is
// ErrNotFound, matching the page behavior when the store was never seeded.
func (s *Service) LoadCatalog(ctx context.Context) (Catalog, error) {
	c, ok, err := s.Store.GetCatalog(ctx)
	if err != nil {
		return Catalog{}, err
	}
	if !ok {
		return Catalog{}, fmt.Errorf("catalog: %w", ErrNotFound)
	}
	return c, nil
}

// GetProduct reads through the cache: a hit is served as-is, a miss loads
// the catalog, populates the cache and returns the product. Cache failures
// are logged and treated as misses.
func (s *Service) GetProduct(ctx context.Context, id int) (Product, error) {
	if s.Cache != nil {
		p, ok, err := s.Cache.Get(ctx, id)
		if err != nil {
			s.Log.Warn("cache get failed", zap.Error(err), zap.Int("product_id", id))
		} else if ok {
			return p, nil
		}
	}

	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return Product{}, err
	}

	p, ok := c.Find(id)
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	s.cacheSet(ctx, p)
	return p, nil
}

// ListProducts applies the query to the current catalog. Each result also
// warms the cache; the per-product sets are independent and idempotent so
// they are fired concurrently.
func (s *Service) ListProducts(ctx context.Context, q ListQuery) ([]Product, error) {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	out := q.Apply(c.Products)

	if s.Cache != nil {
		for _, p := range out {
			go func(p Product) { s.cacheSet(context.WithoutCancel(ctx), p) }(p)
		}
	}
	return out, nil
}

// CreateProduct validates the input, stores the image asset, appends the
// product to the catalog and persists the whole document. The returned
// warnings list carries non-fatal problems; it is empty on a clean run.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput, image AssetUpload) (Product, []string, error) {
	price, err := in.validate()
	if err != nil {
		return Product{}, nil, err
	}
	if len(image.Data) == 0 || image.Filename == "" {
		return Product{}, nil, fmt.Errorf("%w: image is required", ErrValidation)
	}

	// Create works against an empty catalog when the document was never
	// seeded; only a backend failure aborts here.
	c, _, err := s.Store.GetCatalog(ctx)
	if err != nil {
		return Product{}, nil, err
	}

	id := c.NextID()
	key := AssetKey(id, image.Filename)
	if err := s.Store.PutAsset(ctx, key, image.Data, image.ContentType); err != nil {
		return Product{}, nil, fmt.Errorf("store image: %w", err)
	}

	p := Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Image:       key,
	}
	c.Products = append(c.Products, p)

	if err := s.Store.PutCatalog(ctx, c); err != nil {
		return Product{}, nil, err
	}

	s.cacheInvalidate(ctx, id)
	s.cacheSet(ctx, p)
	return p, nil, nil
}

// UpdateProduct replaces the mutable fields of an existing product. A new
// image is optional; when supplied, the old asset is deleted best-effort
// (a failure becomes a warning, not an error) and the new one stored.
func (s *Service) UpdateProduct(ctx context.Context, id int, in ProductInput, image *AssetUpload) (Product, []string, error) {
	price, err := in.validate()
	if err != nil {
		return Product{}, nil, err
	}

	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return Product{}, nil, err
	}

	idx := -1
	for i, p := range c.Products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Product{}, nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	var warnings []string

	p := c.Products[idx]
	p.Name = in.Name
	p.Description = in.Description
	p.Price = price

	if image != nil && len(image.Data) > 0 {
		if old := p.Image; old != "" {
			if err := s.Store.DeleteAsset(ctx, old); err != nil {
				s.Log.Warn("delete old image failed", zap.Error(err), zap.String("asset", old))
				warnings = append(warnings, fmt.Sprintf("old image %q not deleted", old))
			}
		}
		key := AssetKey(id, image.Filename)
		if err := s.Store.PutAsset(ctx, key, image.Data, image.ContentType); err != nil {
			return Product{}, warnings, fmt.Errorf("store image: %w", err)
		}
		p.Image = key
	}

	c.Products[idx] = p
	if err := s.Store.PutCatalog(ctx, c); err != nil {
		return Product{}, warnings, err
	}

	s.cacheInvalidate(ctx, id)
	s.cacheSet(ctx, p)
	return p, warnings, nil
}

// DeleteProduct removes the product from the catalog and best-effort
// deletes its image asset.
func (s *Service) DeleteProduct(ctx context.Context, id int) ([]string, error) {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range c.Products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	var warnings []string

	if asset := c.Products[idx].Image; asset != "" {
		if err := s.Store.DeleteAsset(ctx, asset); err != nil {
			s.Log.Warn("delete image failed", zap.Error(err), zap.String("asset", asset))
			warnings = append(warnings, fmt.Sprintf("image %q not deleted", asset))
		}
	}

	c.Products = append(c.Products[:idx], c.Products[idx+1:]...)
	if err := s.Store.PutCatalog(ctx, c); err != nil {
		return warnings, err
	}

	s.cacheInvalidate(ctx, id)
	return warnings, nil
}

func (s *Service) cacheSet(ctx context.Context, p Product) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, p.ID, p); err != nil {
		s.Log.Warn("cache set failed", zap.Error(err), zap.Int("product_id", p.ID))
	}
}

func (s *Service) cacheInvalidate(ctx context.Context, id int) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, id); err != nil {
		s.Log.Warn("cache invalidate failed", zap.Error(err), zap.Int("product_id", id))
	}
}

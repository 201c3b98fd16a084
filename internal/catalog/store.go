package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/NisseBoman/EdgeShop/internal/store"
)

// CatalogKey is the fixed blob key the whole catalog document lives under.
const CatalogKey = "Items"

const catalogContentType = "application/json"

// CatalogStore adapts the blob store to catalog and asset operations.
//
// The catalog is a single document: every read loads the whole thing and
// every mutation rewrites the whole thing. The underlying store offers no
// compare-and-swap, so two concurrent writers can lose updates — last write
// wins. Callers that need stronger guarantees must serialize writes
// externally.
type CatalogStore struct {
	Blobs store.BlobStore
}

func NewCatalogStore(blobs store.BlobStore) *CatalogStore {
	return &CatalogStore{Blobs: blobs}
}

func (s *CatalogStore) Ping(ctx context.Context) error {
	return s.Blobs.Ping(ctx)
}

func (s *CatalogStore) GetCatalog(ctx context.Context) (Catalog, bool, error) {
	data, _, ok, err := s.Blobs.Get(ctx, CatalogKey)
	if err != nil {
		return Catalog{}, false, fmt.Errorf("get catalog: %w", err)
	}
	if !ok {
		return Catalog{}, false, nil
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, false, fmt.Errorf("decode catalog: %w", err)
	}
	return c, true, nil
}

func (s *CatalogStore) PutCatalog(ctx context.Context, c Catalog) error {
	if c.Products == nil {
		c.Products = []Product{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.Blobs.Put(ctx, CatalogKey, data, catalogContentType); err != nil {
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

func (s *CatalogStore) GetAsset(ctx context.Context, name string) ([]byte, string, bool, error) {
	return s.Blobs.Get(ctx, assetName(name))
}

func (s *CatalogStore) PutAsset(ctx context.Context, name string, data []byte, contentType string) error {
	return s.Blobs.Put(ctx, assetName(name), data, contentType)
}

func (s *CatalogStore) DeleteAsset(ctx context.Context, name string) error {
	return s.Blobs.Delete(ctx, assetName(name))
}

// AssetKey derives the stored filename for a product image from the product
// id and the upload's original filename.
func AssetKey(id int, filename string) string {
	return fmt.Sprintf("%d_%s", id, assetName(filename))
}

// assetName strips any path components so an asset name can never collide
// with the catalog key or escape the flat key namespace.
func assetName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == CatalogKey {
		return "_" + name
	}
	return name
}

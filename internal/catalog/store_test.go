package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/NisseBoman/EdgeShop/internal/store"
)

func TestCatalogStore_RoundTrip(t *testing.T) {
	cs := NewCatalogStore(store.NewMemStore())
	ctx := context.Background()

	if _, ok, err := cs.GetCatalog(ctx); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	in := Catalog{Products: []Product{
		{ID: 1, Name: "Keyboard", Description: "clicky", Price: decimal.NewFromFloat(49.90), Image: "1_kb.jpg"},
	}}
	if err := cs.PutCatalog(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, ok, err := cs.GetCatalog(ctx)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out.Products) != 1 {
		t.Fatalf("products = %+v", out.Products)
	}
	p := out.Products[0]
	if p.ID != 1 || p.Name != "Keyboard" || !p.Price.Equal(decimal.NewFromFloat(49.90)) {
		t.Fatalf("round trip lost data: %+v", p)
	}
}

func TestCatalogStore_DocumentUsesOriginalFieldNames(t *testing.T) {
	blobs := store.NewMemStore()
	cs := NewCatalogStore(blobs)
	ctx := context.Background()

	in := Catalog{Products: []Product{
		{ID: 1, Name: "Keyboard", Description: "clicky", Price: decimal.NewFromFloat(49.90), Image: "kb.jpg"},
	}}
	if err := cs.PutCatalog(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, _, ok, err := blobs.Get(ctx, CatalogKey)
	if err != nil || !ok {
		t.Fatalf("raw get: ok=%v err=%v", ok, err)
	}

	doc := string(raw)
	for _, field := range []string{`"Products"`, `"ProductId":1`, `"ProductName":"Keyboard"`, `"ProductDesc":"clicky"`, `"ProductPrice":49.9`, `"ProductImage":"kb.jpg"`} {
		if !strings.Contains(doc, field) {
			t.Errorf("document missing %s: %s", field, doc)
		}
	}
}

func TestAssets_RoundTrip(t *testing.T) {
	cs := NewCatalogStore(store.NewMemStore())
	ctx := context.Background()

	if err := cs.PutAsset(ctx, "1_kb.jpg", []byte{0xff, 0xd8}, "image/jpeg"); err != nil {
		t.Fatalf("put asset: %v", err)
	}

	data, ct, ok, err := cs.GetAsset(ctx, "1_kb.jpg")
	if err != nil || !ok {
		t.Fatalf("get asset: ok=%v err=%v", ok, err)
	}
	if ct != "image/jpeg" || len(data) != 2 {
		t.Fatalf("asset = %d bytes, ct %q", len(data), ct)
	}

	if err := cs.DeleteAsset(ctx, "1_kb.jpg"); err != nil {
		t.Fatalf("delete asset: %v", err)
	}
	if _, _, ok, _ := cs.GetAsset(ctx, "1_kb.jpg"); ok {
		t.Fatalf("asset survived delete")
	}
}

func TestAssetKey(t *testing.T) {
	cases := []struct {
		id       int
		filename string
		want     string
	}{
		{3, "photo.png", "3_photo.png"},
		{3, "dir/photo.png", "3_photo.png"},
		{3, "..\\photo.png", "3_photo.png"},
		{7, "../../etc/passwd", "7_passwd"},
	}

	for _, tc := range cases {
		if got := AssetKey(tc.id, tc.filename); got != tc.want {
			t.Errorf("AssetKey(%d, %q) = %q, want %q", tc.id, tc.filename, got, tc.want)
		}
	}
}

func TestAssetName_CannotShadowCatalogKey(t *testing.T) {
	cs := NewCatalogStore(store.NewMemStore())
	ctx := context.Background()

	if err := cs.PutCatalog(ctx, Catalog{}); err != nil {
		t.Fatalf("put catalog: %v", err)
	}

	// Storing an asset literally named like the catalog key must not
	// overwrite the catalog document.
	if err := cs.PutAsset(ctx, CatalogKey, []byte{1}, "image/png"); err != nil {
		t.Fatalf("put asset: %v", err)
	}

	if _, ok, err := cs.GetCatalog(ctx); err != nil || !ok {
		t.Fatalf("catalog clobbered by asset: ok=%v err=%v", ok, err)
	}
}

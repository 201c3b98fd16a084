package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NisseBoman/EdgeShop/internal/admin"
	"github.com/NisseBoman/EdgeShop/internal/api"
	"github.com/NisseBoman/EdgeShop/internal/cache"
	"github.com/NisseBoman/EdgeShop/internal/catalog"
	"github.com/NisseBoman/EdgeShop/internal/config"
	"github.com/NisseBoman/EdgeShop/internal/pricing"
	"github.com/NisseBoman/EdgeShop/internal/store"
	"github.com/NisseBoman/EdgeShop/internal/web"
	"github.com/NisseBoman/EdgeShop/pkg/kit"
)

func main() {
	service := "edgeshop"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(getenv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	blobs, usingMemory := buildBlobStore(cfg, log)
	catalogStore := catalog.NewCatalogStore(blobs)

	seedCatalog(catalogStore, usingMemory, log)

	svc := catalog.NewService(catalogStore, buildCache(cfg, log), log)

	shipping, err := pricing.PolicyFromStrings(cfg.Shipping.Policy, cfg.Shipping.Fee, cfg.Shipping.FreeAtOrAbove)
	if err != nil {
		log.Fatal("shipping config", zap.Error(err))
	}
	log.Info("shipping policy active", zap.String("policy", shipping.Name()))

	hash, err := admin.HashPassword(cfg.Admin.Password)
	if err != nil {
		log.Fatal("hash admin password", zap.Error(err))
	}

	pages := &web.Server{Catalog: svc, Shipping: shipping, Log: log}
	products := &api.Server{
		Catalog: svc,
		Tokens:  admin.NewTokenMaker(cfg.Admin.JWTSecret),
		Creds:   admin.NewCredentials(cfg.Admin.Username, hash),
		Log:     log,
	}

	registry := prometheus.NewRegistry()
	metrics := kit.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(log))
	r.Use(metrics.Middleware(service, kit.ChiRoutePatternOrPath))

	if cfg.MetricsEnabled {
		r.With(kit.MetricsAuth(cfg.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Mount("/api", products.Routes())
	r.Mount("/", pages.Routes())

	if err := kit.RunHTTPServer(":"+cfg.Port, r, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildBlobStore(cfg config.Config, log *zap.Logger) (store.BlobStore, bool) {
	if cfg.Store.DatabaseURL == "" {
		log.Info("using in-memory blob store")
		return store.NewMemStore(), true
	}

	db, err := sql.Open("pgx", cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	log.Info("using postgres blob store")
	return store.NewPostgresStore(db), false
}

func buildCache(cfg config.Config, log *zap.Logger) catalog.ProductCache {
	if !cfg.Cache.Enabled {
		log.Info("product cache disabled")
		return nil
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cfg.Cache.RedisAddr != "" {
		log.Info("using redis product cache", zap.String("addr", cfg.Cache.RedisAddr))
		return cache.NewRedisCache(cfg.Cache.RedisAddr, ttl)
	}

	log.Info("using in-memory product cache")
	return cache.NewMemoryCache(ttl)
}

// seedCatalog makes sure the catalog document exists. The memory store
// starts with a few demo products so the storefront renders something out
// of the box; a persistent store just gets an empty document.
func seedCatalog(cs *catalog.CatalogStore, demo bool, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, ok, err := cs.GetCatalog(ctx)
	if err != nil {
		log.Warn("catalog probe failed, skipping seed", zap.Error(err))
		return
	}
	if ok {
		return
	}

	c := catalog.Catalog{Products: []catalog.Product{}}
	if demo {
		c.Products = []catalog.Product{
			{ID: 1, Name: "Keyboard", Description: "Compact mechanical keyboard", Price: decimal.NewFromFloat(49.90), Image: "1_keyboard.jpg"},
			{ID: 2, Name: "Mouse", Description: "Wireless mouse", Price: decimal.NewFromFloat(19.90), Image: "2_mouse.jpg"},
			{ID: 3, Name: "Monitor", Description: "27 inch QHD display", Price: decimal.NewFromFloat(299.00), Image: "3_monitor.jpg"},
		}
	}

	if err := cs.PutCatalog(ctx, c); err != nil {
		log.Warn("seed catalog failed", zap.Error(err))
		return
	}
	log.Info("seeded catalog", zap.Int("products", len(c.Products)))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

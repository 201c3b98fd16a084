// Package config loads the storefront configuration: an optional YAML file
// first, then environment variables on top. Everything has a working
// default so the binary runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	Store StoreConfig `yaml:"store"`
	Cache CacheConfig `yaml:"cache"`

	Shipping ShippingConfig `yaml:"shipping"`

	Admin AdminConfig `yaml:"admin"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsToken   string `yaml:"metrics_token"`
}

type StoreConfig struct {
	// DatabaseURL switches the blob store from in-memory to Postgres.
	DatabaseURL string `yaml:"database_url"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// RedisAddr switches the product cache from in-process to Redis.
	RedisAddr  string `yaml:"redis_addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// ShippingConfig selects exactly one shipping policy. "threshold" is the
// reference behavior (fee waived at or above the free limit); "flat"
// charges the fee unconditionally.
type ShippingConfig struct {
	Policy        string `yaml:"policy"` // "threshold" or "flat"
	Fee           string `yaml:"fee"`
	FreeAtOrAbove string `yaml:"free_at_or_above"`
}

type AdminConfig struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	JWTSecret string `yaml:"jwt_secret"`
}

func Default() Config {
	return Config{
		Port: "8080",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 60,
		},
		Shipping: ShippingConfig{
			Policy:        "threshold",
			Fee:           "10",
			FreeAtOrAbove: "500",
		},
		Admin: AdminConfig{
			Username:  "admin",
			Password:  "admin",
			JWTSecret: "dev-secret",
		},
	}
}

// Load reads path when it exists (a missing file is not an error), then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Port, "PORT")
	setStr(&c.Store.DatabaseURL, "DATABASE_URL")
	setBool(&c.Cache.Enabled, "CACHE_ENABLED")
	setStr(&c.Cache.RedisAddr, "REDIS_ADDR")
	setInt(&c.Cache.TTLSeconds, "CACHE_TTL_SECONDS")
	setStr(&c.Shipping.Policy, "SHIPPING_POLICY")
	setStr(&c.Shipping.Fee, "SHIPPING_FEE")
	setStr(&c.Shipping.FreeAtOrAbove, "SHIPPING_FREE_AT")
	setStr(&c.Admin.Username, "ADMIN_USERNAME")
	setStr(&c.Admin.Password, "ADMIN_PASSWORD")
	setStr(&c.Admin.JWTSecret, "JWT_SECRET")
	setBool(&c.MetricsEnabled, "METRICS_ENABLED")
	setStr(&c.MetricsToken, "METRICS_TOKEN")
}

func (c Config) validate() error {
	switch c.Shipping.Policy {
	case "threshold", "flat":
	default:
		return fmt.Errorf("config: unknown shipping policy %q", c.Shipping.Policy)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("config: cache ttl_seconds must not be negative")
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

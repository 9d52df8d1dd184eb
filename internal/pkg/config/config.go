package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	SiteURL   string `env:"SITE_URL,  default=http://localhost:8080"`

	Backend  BackendConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Tracking TrackingConfig
	Shipment ShipmentConfig
	Activity ActivityConfig
	Receipt  ReceiptConfig
}

// BackendConfig points at the external shipment/tracking API.
type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, required"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=logistics_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type TrackingConfig struct {
	SessionTTL time.Duration `env:"TRACKING_SESSION_TTL, default=30m"`
}

type ShipmentConfig struct {
	CacheTTL       time.Duration `env:"SHIPMENT_CACHE_TTL, default=1m"`
	StatusDedupTTL time.Duration `env:"STATUS_DEDUP_TTL,   default=10m"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

type ReceiptConfig struct {
	CompanyName string `env:"RECEIPT_COMPANY_NAME, default=DM Logistics"`
}

// IsProduction reports whether the service runs with production settings
// (JSON logs, no swagger UI).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	return &cfg, nil
}

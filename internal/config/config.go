// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	defaultDatabaseURL  = "mongodb://localhost:27017"
	defaultDatabaseName = "katana_shop"
)

type Config struct {
	Port        int
	StoreDriver string

	DatabaseURL  string
	DatabaseName string
	// DatabaseURLSet and DatabaseNameSet report whether the variables were
	// provided, as opposed to falling back to the local defaults.
	DatabaseURLSet  bool
	DatabaseNameSet bool

	SQLitePath string

	RedisAddr       string
	CatalogCacheTTL time.Duration
	IdempotencyTTL  time.Duration

	StrictValidation bool
	SeedDemoData     bool

	GRPCHealthAddr string
	HealthInterval time.Duration

	OTelEnabled     bool
	OTelServiceName string
	OTelEndpoint    string
	Environment     string

	LogLevel string
}

// Load reads the environment. Unset variables take the documented defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("SQLITE_PATH", "./data/katana.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CATALOG_CACHE_TTL", "30s")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("ORDER_STRICT_VALIDATION", false)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("GRPC_HEALTH_ADDR", "")
	v.SetDefault("HEALTH_INTERVAL", "10s")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "katana-shop")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_RESOURCE_ATTRIBUTES_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		Port:             v.GetInt("PORT"),
		StoreDriver:      strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DatabaseName:     v.GetString("DATABASE_NAME"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		CatalogCacheTTL:  v.GetDuration("CATALOG_CACHE_TTL"),
		IdempotencyTTL:   v.GetDuration("IDEMPOTENCY_TTL"),
		StrictValidation: v.GetBool("ORDER_STRICT_VALIDATION"),
		SeedDemoData:     v.GetBool("SEED_DEMO_DATA"),
		GRPCHealthAddr:   v.GetString("GRPC_HEALTH_ADDR"),
		HealthInterval:   v.GetDuration("HEALTH_INTERVAL"),
		OTelEnabled:      v.GetBool("OTEL_ENABLED"),
		OTelServiceName:  v.GetString("OTEL_SERVICE_NAME"),
		OTelEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Environment:      v.GetString("OTEL_RESOURCE_ATTRIBUTES_ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
	}

	cfg.DatabaseURLSet = cfg.DatabaseURL != ""
	if !cfg.DatabaseURLSet {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.DatabaseNameSet = cfg.DatabaseName != ""
	if !cfg.DatabaseNameSet {
		cfg.DatabaseName = defaultDatabaseName
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want mongo, sqlite or memory)", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.HealthInterval <= 0 {
		return fmt.Errorf("config: HEALTH_INTERVAL must be positive")
	}
	return nil
}

// Addr is the HTTP listen address, all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

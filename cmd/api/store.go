package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	catalogapp "github.com/jcmexdev/katana-shop/internal/catalog/app"
	"github.com/jcmexdev/katana-shop/internal/config"
	"github.com/jcmexdev/katana-shop/internal/health"
	orderapp "github.com/jcmexdev/katana-shop/internal/order/app"
	"github.com/jcmexdev/katana-shop/internal/store/memory"
	"github.com/jcmexdev/katana-shop/internal/store/mongodb"
	"github.com/jcmexdev/katana-shop/internal/store/sqlite"
)

// stores is the driver-independent view of the opened backend.
type stores struct {
	catalog catalogapp.CatalogStore
	orders  orderapp.OrderStore
	probe   health.Probe
	close   func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongodb.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			// The driver keeps reconnecting; requests fail until it succeeds.
			slog.WarnContext(ctx, "mongodb not reachable yet", "database", cfg.DatabaseName, "error", err)
		}
		return &stores{
			catalog: client.Catalog(),
			orders:  client.Orders(),
			probe:   client,
			close:   client.Close,
		}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			catalog: db.Catalog(),
			orders:  db.Orders(),
			probe:   db,
			close:   func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMemory:
		m := memory.New()
		return &stores{
			catalog: m.Catalog(),
			orders:  m.Orders(),
			probe:   m,
			close:   func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

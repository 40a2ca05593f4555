package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/katana-shop/internal/api/httpx"
	catalogapp "github.com/jcmexdev/katana-shop/internal/catalog/app"
	"github.com/jcmexdev/katana-shop/internal/config"
	"github.com/jcmexdev/katana-shop/internal/health"
	orderapp "github.com/jcmexdev/katana-shop/internal/order/app"
	"github.com/jcmexdev/katana-shop/internal/pkg/cache"
	"github.com/jcmexdev/katana-shop/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("katana shop backend stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

// run owns every resource it opens; all of them are released before it
// returns, error or not.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("initialise tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			slog.Error("store close error", "error", err)
		}
	}()
	slog.Info("store opened", "driver", cfg.StoreDriver, "name", st.probe.Name())

	var orderOpts []orderapp.Option
	var catalogOpts []catalogapp.Option
	if cfg.StrictValidation {
		orderOpts = append(orderOpts, orderapp.WithStrictValidation())
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis not reachable, cache lookups will fall back to the store", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()

		c := cache.NewRedisCache(rdb, "katana")
		orderOpts = append(orderOpts, orderapp.WithIdempotency(c, cfg.IdempotencyTTL))
		catalogOpts = append(catalogOpts, catalogapp.WithCache(c, cfg.CatalogCacheTTL))
	}

	orderSvc := orderapp.NewService(st.orders, orderOpts...)
	catalogSvc := catalogapp.NewService(st.catalog, catalogOpts...)

	if cfg.SeedDemoData {
		report := catalogSvc.Seed(ctx)
		slog.Info("catalog seed finished", "status", report.Status, "inserted", report.Inserted)
	}

	reporter := health.NewReporter(st.probe, cfg.DatabaseURLSet, cfg.DatabaseNameSet)
	handler := httpx.NewHandler(orderSvc, catalogSvc, reporter)

	// Both listeners are bound before either server starts.
	httpLis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	var healthLis net.Listener
	if cfg.GRPCHealthAddr != "" {
		healthLis, err = net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", cfg.GRPCHealthAddr, err)
		}
	}

	srv := &http.Server{
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()

	errCh := make(chan error, 2)
	go func() {
		slog.Info("katana shop backend running", "addr", httpLis.Addr().String())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if healthLis != nil {
		healthSrv := health.NewGRPCServer(st.probe, cfg.HealthInterval, logger)
		go func() {
			if err := healthSrv.Serve(serveCtx, healthLis); err != nil {
				errCh <- fmt.Errorf("grpc health server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case runErr = <-errCh:
	}
	cancelServe()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	return runErr
}

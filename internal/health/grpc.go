package health

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/katana-shop/internal/pkg/interceptors"
)

// GRPCServer serves grpc.health.v1.Health for the overall service ("")
// and for the store, named after Probe.Name.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	probe    Probe
	interval time.Duration
	logger   *slog.Logger
}

func NewGRPCServer(probe Probe, interval time.Duration, logger *slog.Logger) *GRPCServer {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor(logger)),
	)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)

	return &GRPCServer{
		server:   srv,
		health:   hs,
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
}

// Serve blocks until ctx is cancelled or the listener fails. The probe is
// checked once up front, then every interval.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	s.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.health.Shutdown()
				s.server.GracefulStop()
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()

	s.logger.InfoContext(ctx, "grpc health server running", "addr", lis.Addr().String())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Refresh pings the store and publishes the result.
func (s *GRPCServer) Refresh(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := s.probe.Ping(pingCtx); err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		s.logger.WarnContext(ctx, "store ping failed", "store", s.probe.Name(), "error", err)
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.probe.Name(), status)
}

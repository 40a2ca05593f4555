package interceptors

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/katana-shop/internal/pkg/requestmeta"
)

// UnaryServerInterceptor copies x-request-id and x-idempotency-key from the
// incoming metadata into the context and logs each call once it returns.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := MetadataValue(ctx, requestmeta.HeaderXRequestID)
		idempotencyKey := MetadataValue(ctx, requestmeta.HeaderXIdempotencyKey)

		ctx = requestmeta.WithRequestID(ctx, requestID)
		ctx = requestmeta.WithIdempotencyKey(ctx, idempotencyKey)

		start := time.Now()
		resp, err := handler(ctx, req)

		logger.DebugContext(ctx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// MetadataValue returns the first incoming metadata value for key, or "".
func MetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(strings.ToLower(key)); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

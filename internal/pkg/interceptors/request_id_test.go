package interceptors

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/katana-shop/internal/pkg/requestmeta"
)

func TestUnaryServerInterceptor_PropagatesMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"x-request-id", "req-42",
		"x-idempotency-key", "idem-42",
	))

	var gotRequestID, gotKey string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotRequestID = requestmeta.RequestID(ctx)
		gotKey = requestmeta.IdempotencyKey(ctx)
		return "ok", nil
	}

	resp, err := UnaryServerInterceptor(logger)(ctx, nil,
		&grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "idem-42", gotKey)
	assert.Contains(t, buf.String(), "/grpc.health.v1.Health/Check")
	assert.Contains(t, buf.String(), "code=OK")
}

func TestMetadataValue_NoMetadata(t *testing.T) {
	assert.Empty(t, MetadataValue(context.Background(), requestmeta.HeaderXRequestID))
}

package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/katana-shop/internal/order/domain"
	"github.com/jcmexdev/katana-shop/internal/pkg/cache"
)

var (
	// ErrIdempotencyConflict means the key was already used for a different order.
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different order")
	// ErrIdempotencyInFlight means an order with the same key is still being created.
	ErrIdempotencyInFlight = errors.New("order with this idempotency key is still being created")
)

// CreateOrderInput is a raw order request. IdempotencyKey is optional.
type CreateOrderInput struct {
	CustomerName   string
	Email          string
	Address        string
	Items          []domain.LineItem
	IdempotencyKey string
}

// Service creates orders on top of an OrderStore.
type Service struct {
	store          OrderStore
	cache          cache.Cache // nil-safe: idempotent replay disabled if nil
	idempotencyTTL time.Duration
	buildOpts      []domain.BuildOption
	tracer         trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithIdempotency remembers created order IDs per idempotency key for ttl.
func WithIdempotency(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.idempotencyTTL = ttl
	}
}

// WithStrictValidation hardens order validation, see domain.Strict.
func WithStrictValidation() Option {
	return func(s *Service) {
		s.buildOpts = append(s.buildOpts, domain.Strict())
	}
}

func NewService(store OrderStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("katana-shop/order"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates the request, computes totals and inserts the order
// exactly once. A *domain.ValidationError means nothing was stored; a
// *domain.PersistenceError means the store rejected the write. Neither is
// retried.
//
// With an idempotency key, validation still runs first. The key is then
// claimed atomically together with a fingerprint of the built order: a
// repeat of the same order returns the first ID, a different order under
// the same key fails with ErrIdempotencyConflict, and a repeat that arrives
// while the first insert is running fails with ErrIdempotencyInFlight.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CreateOrder",
		trace.WithAttributes(attribute.Int("order.item_count", len(in.Items))))
	defer span.End()

	order, err := domain.BuildOrder(in.CustomerName, in.Email, in.Address, in.Items, s.buildOpts...)
	if err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return "", err
	}

	fp := fingerprint(order)
	claimed, replayID, err := s.claim(ctx, in.IdempotencyKey, fp)
	if err != nil {
		span.SetStatus(codes.Error, "idempotency key rejected")
		return "", err
	}
	if replayID != "" {
		span.SetAttributes(attribute.Bool("order.replayed", true))
		return replayID, nil
	}

	id, err := s.store.Insert(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		if claimed {
			s.release(ctx, in.IdempotencyKey)
		}
		return "", &domain.PersistenceError{Op: "insert order", Err: err}
	}

	span.SetAttributes(attribute.String("order.id", id), attribute.Float64("order.total_amount", order.TotalAmount))
	slog.InfoContext(ctx, "order created", "order_id", id, "items", len(order.Items), "total_amount", order.TotalAmount)

	if claimed {
		s.remember(ctx, in.IdempotencyKey, fp, id)
	}
	return id, nil
}

// GetOrder returns a stored order or domain.ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, err
	}
	if err != nil {
		return domain.Order{}, &domain.PersistenceError{Op: "get order", Err: err}
	}
	return o, nil
}

// idempotencyRecord is the cached value under an idempotency key. OrderID
// is empty while the first request is still inserting.
type idempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	OrderID     string `json:"order_id,omitempty"`
}

// claim reserves key for this order. It returns claimed == true when the
// caller must insert, or the ID of an earlier identical order to replay.
// Cache failures disable idempotency for the request instead of failing it.
func (s *Service) claim(ctx context.Context, key, fp string) (claimed bool, replayID string, err error) {
	if s.cache == nil || key == "" {
		return false, "", nil
	}
	cacheKey := s.cache.Key("idempotency", key)

	pending, _ := json.Marshal(idempotencyRecord{Fingerprint: fp})
	ok, err := s.cache.SetNX(ctx, cacheKey, string(pending), s.idempotencyTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency claim failed", "idempotency_key", key, "error", err)
		return false, "", nil
	}
	if ok {
		return true, "", nil
	}

	raw, found, err := s.cache.Get(ctx, cacheKey)
	if err != nil || !found {
		slog.WarnContext(ctx, "idempotency lookup failed", "idempotency_key", key, "found", found, "error", err)
		return false, "", nil
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		slog.WarnContext(ctx, "idempotency record unreadable", "idempotency_key", key, "error", err)
		return false, "", nil
	}

	switch {
	case rec.Fingerprint != fp:
		return false, "", ErrIdempotencyConflict
	case rec.OrderID == "":
		return false, "", ErrIdempotencyInFlight
	}
	slog.InfoContext(ctx, "order replayed", "idempotency_key", key, "order_id", rec.OrderID)
	return false, rec.OrderID, nil
}

func (s *Service) remember(ctx context.Context, key, fp, id string) {
	done, _ := json.Marshal(idempotencyRecord{Fingerprint: fp, OrderID: id})
	if err := s.cache.Set(ctx, s.cache.Key("idempotency", key), string(done), s.idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "idempotency_key", key, "order_id", id, "error", err)
	}
}

// release drops a claim whose insert failed so the client can retry.
func (s *Service) release(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, s.cache.Key("idempotency", key)); err != nil {
		slog.WarnContext(ctx, "idempotency release failed", "idempotency_key", key, "error", err)
	}
}

// fingerprint identifies the built order; the store-assigned ID is not part
// of it.
func fingerprint(o domain.Order) string {
	o.ID = ""
	b, _ := json.Marshal(o)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/pkg/cache"
)

// DefaultLimit is the listing size used when the caller gives none.
const DefaultLimit = 50

// SeedStatus summarises a seeding run.
type SeedStatus string

const (
	SeedInserted SeedStatus = "inserted"
	SeedSkipped  SeedStatus = "skipped"
	SeedFailed   SeedStatus = "failed"
)

// SeedReport is the outcome of Seed. Error is set only when Status is
// SeedFailed.
type SeedReport struct {
	Status   SeedStatus
	Inserted int
	Error    string
}

type Service struct {
	store    CatalogStore
	cache    cache.Cache // nil-safe: listings always hit the store if nil
	cacheTTL time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches listings for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(store CatalogStore, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns up to limit katanas. Cache failures fall back to the store.
func (s *Service) List(ctx context.Context, limit int) ([]domain.Katana, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", limit)
	}

	key := ""
	if s.cache != nil {
		key = s.cache.Key("catalog", "list", strconv.Itoa(limit))
		if katanas, ok := s.cached(ctx, key); ok {
			return katanas, nil
		}
	}

	katanas, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list katanas: %w", err)
	}

	if s.cache != nil {
		if b, err := json.Marshal(katanas); err == nil {
			if err := s.cache.Set(ctx, key, string(b), s.cacheTTL); err != nil {
				slog.WarnContext(ctx, "catalog cache store failed", "key", key, "error", err)
			}
		}
	}
	return katanas, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]domain.Katana, bool) {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "catalog cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var katanas []domain.Katana
	if err := json.Unmarshal([]byte(raw), &katanas); err != nil {
		slog.WarnContext(ctx, "catalog cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	return katanas, true
}

// Seed inserts the demo katanas when the catalog is empty. It never fails:
// problems are logged and reported as SeedFailed so startup can continue.
func (s *Service) Seed(ctx context.Context) SeedReport {
	n, err := s.store.Count(ctx)
	if err != nil {
		return s.seedFailed(ctx, 0, fmt.Errorf("count katanas: %w", err))
	}
	if n > 0 {
		slog.InfoContext(ctx, "catalog already populated, seeding skipped", "katanas", n)
		return SeedReport{Status: SeedSkipped}
	}

	inserted := 0
	for _, k := range domain.DemoKatanas() {
		if err := k.Validate(); err != nil {
			return s.seedFailed(ctx, inserted, fmt.Errorf("demo katana %q: %w", k.Name, err))
		}
		if _, err := s.store.Insert(ctx, k); err != nil {
			return s.seedFailed(ctx, inserted, fmt.Errorf("insert demo katana %q: %w", k.Name, err))
		}
		inserted++
	}

	slog.InfoContext(ctx, "catalog seeded", "katanas", inserted)
	return SeedReport{Status: SeedInserted, Inserted: inserted}
}

func (s *Service) seedFailed(ctx context.Context, inserted int, err error) SeedReport {
	slog.WarnContext(ctx, "catalog seeding failed", "inserted", inserted, "error", err)
	return SeedReport{Status: SeedFailed, Inserted: inserted, Error: err.Error()}
}

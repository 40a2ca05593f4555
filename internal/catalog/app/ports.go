package app

import (
	"context"

	"github.com/jcmexdev/katana-shop/internal/catalog/domain"
)

// CatalogStore is the read path for products plus the insert used by
// seeding. List returns katanas in the store's natural order; limit 0
// means no limit.
type CatalogStore interface {
	List(ctx context.Context, limit int) ([]domain.Katana, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, k domain.Katana) (string, error)
}

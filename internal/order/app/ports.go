package app

import (
	"context"

	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

// OrderStore persists orders and assigns their identifiers. Insert must
// return a unique, non-empty ID for every successful call.
type OrderStore interface {
	Insert(ctx context.Context, o domain.Order) (string, error)
	Get(ctx context.Context, id string) (domain.Order, error)
}

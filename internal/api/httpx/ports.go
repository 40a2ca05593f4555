package httpx

import (
	"context"

	catalogapp "github.com/jcmexdev/katana-shop/internal/catalog/app"
	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/health"
	orderapp "github.com/jcmexdev/katana-shop/internal/order/app"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

// OrderService is satisfied by *orderapp.Service.
type OrderService interface {
	CreateOrder(ctx context.Context, in orderapp.CreateOrderInput) (string, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

// CatalogService is satisfied by *catalogapp.Service.
type CatalogService interface {
	List(ctx context.Context, limit int) ([]catalog.Katana, error)
}

// Diagnostics is satisfied by *health.Reporter.
type Diagnostics interface {
	Report(ctx context.Context) health.Report
}

var (
	_ OrderService   = (*orderapp.Service)(nil)
	_ CatalogService = (*catalogapp.Service)(nil)
	_ Diagnostics    = (*health.Reporter)(nil)
)

// Package memory keeps catalog and order documents in process memory. It
// backs the test suites and STORE_DRIVER=memory; contents vanish on exit.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

// Store owns both collections. Its zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	katanas []catalog.Katana
	orders  map[string]domain.Order
}

func New() *Store {
	return &Store{orders: make(map[string]domain.Order)}
}

// Catalog returns the katana repository view of the store.
func (s *Store) Catalog() *CatalogRepository { return &CatalogRepository{s: s} }

// Orders returns the order repository view of the store.
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Name() string { return "memory" }

func (s *Store) Collections(context.Context) ([]string, error) {
	return []string{"katana", "order"}, nil
}

type CatalogRepository struct {
	s *Store
}

// List returns up to limit katanas in insertion order; limit 0 means all.
func (r *CatalogRepository) List(_ context.Context, limit int) ([]catalog.Katana, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := len(r.s.katanas)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]catalog.Katana, n)
	for i := range n {
		out[i] = cloneKatana(r.s.katanas[i])
	}
	return out, nil
}

func (r *CatalogRepository) Count(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.katanas)), nil
}

func (r *CatalogRepository) Insert(_ context.Context, k catalog.Katana) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k = cloneKatana(k)
	k.ID = uuid.NewString()
	r.s.katanas = append(r.s.katanas, k)
	return k.ID, nil
}

type OrderRepository struct {
	s *Store
}

func (r *OrderRepository) Insert(_ context.Context, o domain.Order) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.ID = uuid.NewString()
	o.Items = slices.Clone(o.Items)
	r.s.orders[o.ID] = o
	return o.ID, nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.Items = slices.Clone(o.Items)
	return o, nil
}

// Len reports how many orders are stored.
func (r *OrderRepository) Len() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.orders)
}

func cloneKatana(k catalog.Katana) catalog.Katana {
	k.Images = slices.Clone(k.Images)
	if k.WeightKg != nil {
		w := *k.WeightKg
		k.WeightKg = &w
	}
	if k.Rating != nil {
		r := *k.Rating
		k.Rating = &r
	}
	return k
}

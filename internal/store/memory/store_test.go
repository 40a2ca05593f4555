package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
	"github.com/jcmexdev/katana-shop/internal/store/memory"
)

func TestCatalogRepository_ListHonoursLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Catalog()

	for _, k := range catalog.DemoKatanas() {
		id, err := repo.Insert(ctx, k)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	two, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "Hattori Hanzo Classic", two[0].Name)
	assert.Equal(t, "Dragon's Breath", two[1].Name)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	more, err := repo.List(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, more, 3)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestCatalogRepository_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Catalog()
	_, err := repo.Insert(ctx, catalog.DemoKatanas()[0])
	require.NoError(t, err)

	first, err := repo.List(ctx, 1)
	require.NoError(t, err)
	first[0].Images[0] = "mutated"
	*first[0].Rating = 0

	again, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Images[0])
	assert.Equal(t, 4.8, *again[0].Rating)
}

func TestOrderRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Orders()

	order, err := domain.BuildOrder("Jane Doe", "jane@example.com", "1 Main St",
		[]domain.LineItem{{ProductID: "p1", Name: "Shinobi Light", Quantity: 2, UnitPrice: 499}})
	require.NoError(t, err)

	id1, err := repo.Insert(ctx, order)
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, order)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, repo.Len())

	got, err := repo.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, id1, got.ID)
	assert.Equal(t, 998.0, got.TotalAmount)
	assert.Equal(t, order.Items, got.Items)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

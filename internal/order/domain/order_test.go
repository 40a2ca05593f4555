package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

func TestBuildOrder_SingleItem(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Name: "Shinobi Light", Quantity: 2, UnitPrice: 499.0},
	}

	order, err := domain.BuildOrder("Jane Doe", "jane@example.com", "1 Main St", items)
	require.NoError(t, err)

	assert.Empty(t, order.ID)
	assert.Equal(t, "Jane Doe", order.CustomerName)
	assert.Equal(t, "jane@example.com", order.Email)
	assert.Equal(t, "1 Main St", order.Address)
	require.Len(t, order.Items, 1)
	assert.Equal(t, domain.OrderLine{
		ProductID: "p1",
		Name:      "Shinobi Light",
		Quantity:  2,
		UnitPrice: 499.0,
		Subtotal:  998.0,
	}, order.Items[0])
	assert.Equal(t, 998.0, order.TotalAmount)
}

func TestBuildOrder_TwoItems(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Name: "Hattori Hanzo Classic", Quantity: 1, UnitPrice: 899.0},
		{ProductID: "p3", Name: "Shinobi Light", Quantity: 3, UnitPrice: 499.0},
	}

	order, err := domain.BuildOrder("Jane Doe", "jane@example.com", "1 Main St", items)
	require.NoError(t, err)

	assert.Equal(t, 899.0, order.Items[0].Subtotal)
	assert.Equal(t, 1497.0, order.Items[1].Subtotal)
	assert.Equal(t, 2396.0, order.TotalAmount)
}

func TestBuildOrder_PreservesInputOrder(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "c", Quantity: 1, UnitPrice: 3},
		{ProductID: "a", Quantity: 1, UnitPrice: 1},
		{ProductID: "b", Quantity: 1, UnitPrice: 2},
	}

	order, err := domain.BuildOrder("Jane", "", "Street", items)
	require.NoError(t, err)

	ids := make([]string, 0, len(order.Items))
	for _, line := range order.Items {
		ids = append(ids, line.ProductID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestBuildOrder_TotalIndependentOfItemOrder(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: 899.0},
		{ProductID: "p2", Quantity: 2, UnitPrice: 1299.0},
		{ProductID: "p3", Quantity: 3, UnitPrice: 499.0},
	}
	permutations := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, perm := range permutations {
		shuffled := make([]domain.LineItem, len(items))
		for i, p := range perm {
			shuffled[i] = items[p]
		}
		order, err := domain.BuildOrder("Jane", "", "Street", shuffled)
		require.NoError(t, err)
		assert.InDelta(t, 899.0+2598.0+1497.0, order.TotalAmount, 1e-9, "permutation %v", perm)
	}
}

func TestBuildOrder_FractionalPrices(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Quantity: 3, UnitPrice: 0.1},
		{ProductID: "p2", Quantity: 7, UnitPrice: 19.99},
	}

	order, err := domain.BuildOrder("Jane", "", "Street", items)
	require.NoError(t, err)

	var want float64
	for _, it := range items {
		want += float64(it.Quantity) * it.UnitPrice
	}
	assert.Equal(t, want, order.TotalAmount)
	assert.InDelta(t, 140.23, order.TotalAmount, 1e-9)
}

func TestBuildOrder_ZeroPriceAllowed(t *testing.T) {
	items := []domain.LineItem{{ProductID: "gift", Quantity: 1, UnitPrice: 0}}

	order, err := domain.BuildOrder("Jane", "", "Street", items)
	require.NoError(t, err)
	assert.Zero(t, order.TotalAmount)
}

func TestBuildOrder_EmptyItemsYieldZeroTotal(t *testing.T) {
	order, err := domain.BuildOrder("Jane", "jane@example.com", "Street", nil)
	require.NoError(t, err)

	assert.Empty(t, order.Items)
	assert.NotNil(t, order.Items)
	assert.Zero(t, order.TotalAmount)
}

func TestBuildOrder_EmptyContactAcceptedByDefault(t *testing.T) {
	items := []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: 10}}

	order, err := domain.BuildOrder("", "not-an-email", "", items)
	require.NoError(t, err)
	assert.Equal(t, "not-an-email", order.Email)
}

func TestBuildOrder_RejectsBadQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		items := []domain.LineItem{
			{ProductID: "p1", Quantity: 1, UnitPrice: 10},
			{ProductID: "p2", Quantity: qty, UnitPrice: 10},
		}

		_, err := domain.BuildOrder("Jane", "", "Street", items)
		require.Error(t, err)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "quantity %d", qty)
		assert.Equal(t, "items[1].quantity", verr.Field)
		assert.Equal(t, 1, verr.Index)
	}
}

func TestBuildOrder_RejectsNegativePrice(t *testing.T) {
	items := []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: -0.01}}

	_, err := domain.BuildOrder("Jane", "", "Street", items)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].price", verr.Field)
	assert.Equal(t, 0, verr.Index)
	assert.Contains(t, err.Error(), "items[0].price")
}

func TestBuildOrder_RejectsNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		items := []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: price}}

		_, err := domain.BuildOrder("Jane", "", "Street", items)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "items[0].price", verr.Field)
	}
}

func TestBuildOrder_FirstInvalidItemWins(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: 10},
		{ProductID: "p2", Quantity: 1, UnitPrice: -5},
		{ProductID: "p3", Quantity: 0, UnitPrice: 10},
	}

	_, err := domain.BuildOrder("Jane", "", "Street", items)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
}

func TestBuildOrder_Strict(t *testing.T) {
	items := []domain.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: 10}}

	tests := []struct {
		name         string
		customerName string
		address      string
		items        []domain.LineItem
		field        string
	}{
		{"missing name", "", "Street", items, "customer_name"},
		{"missing address", "Jane", "", items, "address"},
		{"no items", "Jane", "Street", nil, "items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.BuildOrder(tt.customerName, "", tt.address, tt.items, domain.Strict())

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, domain.NoIndex, verr.Index)
		})
	}

	order, err := domain.BuildOrder("Jane", "", "Street", items, domain.Strict())
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.TotalAmount)
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &domain.PersistenceError{Op: "insert order", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert order: connection refused", err.Error())
}

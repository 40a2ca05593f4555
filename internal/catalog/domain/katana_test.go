package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/katana-shop/internal/catalog/domain"
)

func TestDemoKatanas_AreValid(t *testing.T) {
	katanas := domain.DemoKatanas()
	require.Len(t, katanas, 3)

	for _, k := range katanas {
		assert.NoError(t, k.Validate(), k.Name)
		assert.Empty(t, k.ID)
	}
	assert.Equal(t, "Shinobi Light", katanas[2].Name)
	assert.Equal(t, 499.0, katanas[2].Price)
}

func TestKatana_Validate(t *testing.T) {
	neg := -1.0
	high := 5.5

	k := domain.Katana{Price: -1, LengthCm: -2, WeightKg: &neg, Stock: -3, Rating: &high}
	err := k.Validate()
	require.Error(t, err)

	for _, field := range []string{"name", "price", "length_cm", "weight_kg", "stock", "rating"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestKatana_Validate_OptionalFieldsMayBeNil(t *testing.T) {
	k := domain.Katana{Name: "Plain", Price: 100, LengthCm: 70}
	assert.NoError(t, k.Validate())
}

package catalog

import (
	"testing"

	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	price := valueobject.NewMoneyBOBFromFloat(149.90)

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("Hoodie Oversize", "Heavy cotton hoodie", "hoodies", price, []string{"S", "M", "L"})
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Hoodie Oversize", product.Name)
		assert.Equal(t, "hoodies", product.Category)
		assert.True(t, product.Visible)
		assert.Equal(t, 0, product.Stock)
		assert.Len(t, product.Variants, 3)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("trims product name", func(t *testing.T) {
		product, err := NewProduct("  Tee Basic  ", "", "tees", price, nil)
		require.NoError(t, err)
		assert.Equal(t, "Tee Basic", product.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("   ", "", "tees", price, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("fails with zero price", func(t *testing.T) {
		_, err := NewProduct("Tee", "", "tees", valueobject.ZeroBOB(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Tee", "", "tees", valueobject.NewMoneyBOBFromFloat(-10), nil)
		require.Error(t, err)
	})

	t.Run("fails with duplicate sizes", func(t *testing.T) {
		_, err := NewProduct("Tee", "", "tees", price, []string{"M", "m"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestProduct_AddVariant(t *testing.T) {
	product, err := NewProduct("Tee", "", "tees", valueobject.NewMoneyBOBFromFloat(80), []string{"S"})
	require.NoError(t, err)

	t.Run("adds a new size", func(t *testing.T) {
		require.NoError(t, product.AddVariant("M"))
		assert.Len(t, product.Variants, 2)
		assert.Equal(t, product.ID, product.Variants[1].ProductID)
	})

	t.Run("rejects duplicate size case-insensitively", func(t *testing.T) {
		err := product.AddVariant("s")
		require.Error(t, err)
	})

	t.Run("rejects blank size", func(t *testing.T) {
		err := product.AddVariant("  ")
		require.Error(t, err)
	})
}

func TestProduct_VariantBySize(t *testing.T) {
	product, err := NewProduct("Tee", "", "tees", valueobject.NewMoneyBOBFromFloat(80), []string{"S", "M"})
	require.NoError(t, err)

	v := product.VariantBySize("m")
	require.NotNil(t, v)
	assert.Equal(t, "M", v.Size)

	assert.Nil(t, product.VariantBySize("XL"))
}

func TestProduct_UpdateDetails(t *testing.T) {
	product, err := NewProduct("Tee", "", "tees", valueobject.NewMoneyBOBFromFloat(80), nil)
	require.NoError(t, err)

	t.Run("updates fields", func(t *testing.T) {
		newPrice := valueobject.NewMoneyBOBFromFloat(95)
		require.NoError(t, product.UpdateDetails("Tee v2", "restock", "tees", newPrice))
		assert.Equal(t, "Tee v2", product.Name)
		assert.True(t, product.Price.Equals(newPrice))
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		err := product.UpdateDetails("Tee v2", "", "tees", valueobject.ZeroBOB())
		require.Error(t, err)
	})
}

func TestProduct_StorefrontStock(t *testing.T) {
	product, err := NewProduct("Tee", "", "tees", valueobject.NewMoneyBOBFromFloat(80), nil)
	require.NoError(t, err)

	t.Run("sets stock", func(t *testing.T) {
		require.NoError(t, product.SetStorefrontStock(10))
		assert.Equal(t, 10, product.Stock)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		require.Error(t, product.SetStorefrontStock(-1))
	})

	t.Run("decreases stock", func(t *testing.T) {
		require.NoError(t, product.SetStorefrontStock(5))
		require.NoError(t, product.DecreaseStorefrontStock(3))
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("fails when decreasing below zero", func(t *testing.T) {
		require.NoError(t, product.SetStorefrontStock(2))
		err := product.DecreaseStorefrontStock(3)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, 2, product.Stock, "stock must be unchanged on failure")
	})

	t.Run("rejects non-positive decrement", func(t *testing.T) {
		require.Error(t, product.DecreaseStorefrontStock(0))
	})
}

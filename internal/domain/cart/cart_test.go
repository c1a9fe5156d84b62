package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bob(amount float64) valueobject.Money {
	return valueobject.NewMoneyBOBFromFloat(amount)
}

func TestNewCart(t *testing.T) {
	owner := uuid.New()
	c := NewCart(owner)

	assert.Equal(t, owner, c.OwnerID)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal.IsZero())
	assert.True(t, c.Total.IsZero())
	assert.True(t, c.Discount.IsZero())
}

func TestCart_AddItem(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	t.Run("adds a new line and recomputes totals", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, &variantID, "M", 2, bob(50), 10))

		require.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.Items[0].Quantity)
		assert.True(t, c.Subtotal.Equals(bob(100)))
		assert.True(t, c.Total.Equals(bob(100)))
	})

	t.Run("merges lines for the same product and variant", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, &variantID, "M", 2, bob(50), 10))
		require.NoError(t, c.AddItem(productID, &variantID, "M", 3, bob(50), 10))

		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.Equal(t, 5, c.ItemCount())
	})

	t.Run("different variants stay on separate lines", func(t *testing.T) {
		c := NewCart(uuid.New())
		other := uuid.New()
		require.NoError(t, c.AddItem(productID, &variantID, "M", 1, bob(50), 10))
		require.NoError(t, c.AddItem(productID, &other, "L", 1, bob(50), 10))
		assert.Len(t, c.Items, 2)
	})

	t.Run("fails when merged quantity exceeds available stock", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, &variantID, "M", 3, bob(50), 5))

		err := c.AddItem(productID, &variantID, "M", 3, bob(50), 5)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, 3, c.Items[0].Quantity, "failed add must not change the line")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.Error(t, c.AddItem(productID, nil, "", 0, bob(50), 5))
		require.Error(t, c.AddItem(productID, nil, "", -1, bob(50), 5))
	})

	t.Run("merge refreshes the unit price", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, &variantID, "M", 1, bob(50), 10))
		require.NoError(t, c.AddItem(productID, &variantID, "M", 1, bob(60), 10))

		assert.True(t, c.Items[0].UnitPrice.Equals(bob(60)))
		assert.True(t, c.Subtotal.Equals(bob(120)))
	})
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	productID := uuid.New()

	setup := func(t *testing.T) *Cart {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, nil, "", 2, bob(40), 10))
		return c
	}

	t.Run("updates quantity and totals", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.UpdateItemQuantity(c.Items[0].ID, 5, 10))
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.True(t, c.Total.Equals(bob(200)))
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.UpdateItemQuantity(c.Items[0].ID, 0, 10))
		assert.True(t, c.IsEmpty())
		assert.True(t, c.Total.IsZero())
	})

	t.Run("negative quantity removes the line", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.UpdateItemQuantity(c.Items[0].ID, -1, 10))
		assert.True(t, c.IsEmpty())
	})

	t.Run("fails beyond available stock", func(t *testing.T) {
		c := setup(t)
		err := c.UpdateItemQuantity(c.Items[0].ID, 11, 10)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, 2, c.Items[0].Quantity)
	})

	t.Run("fails for unknown line", func(t *testing.T) {
		c := setup(t)
		err := c.UpdateItemQuantity(uuid.New(), 1, 10)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestCart_RemoveItem(t *testing.T) {
	c := NewCart(uuid.New())
	first, second := uuid.New(), uuid.New()
	require.NoError(t, c.AddItem(first, nil, "", 1, bob(30), 10))
	require.NoError(t, c.AddItem(second, nil, "", 1, bob(70), 10))

	require.NoError(t, c.RemoveItem(c.Items[0].ID))
	require.Len(t, c.Items, 1)
	assert.Equal(t, second, c.Items[0].ProductID)
	assert.Equal(t, 0, c.Items[0].SortOrder, "remaining lines are reindexed")
	assert.True(t, c.Total.Equals(bob(70)))

	assert.Equal(t, shared.ErrNotFound, c.RemoveItem(uuid.New()))
}

func TestCart_Clear(t *testing.T) {
	c := NewCart(uuid.New())
	require.NoError(t, c.AddItem(uuid.New(), nil, "", 2, bob(30), 10))
	require.NoError(t, c.ApplyDiscount(bob(10)))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Discount.IsZero())
	assert.True(t, c.Subtotal.IsZero())
	assert.True(t, c.Total.IsZero())
}

func TestCart_ApplyDiscount(t *testing.T) {
	setup := func(t *testing.T) *Cart {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), nil, "", 2, bob(50), 10))
		return c
	}

	t.Run("applies valid discount", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.ApplyDiscount(bob(20)))
		assert.True(t, c.Total.Equals(bob(80)))
	})

	t.Run("discount equal to subtotal leaves zero total", func(t *testing.T) {
		c := setup(t)
		require.NoError(t, c.ApplyDiscount(bob(100)))
		assert.True(t, c.Total.IsZero())
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		c := setup(t)
		err := c.ApplyDiscount(bob(-1))
		assert.Equal(t, shared.ErrInvalidDiscount, err)
	})

	t.Run("rejects discount above subtotal", func(t *testing.T) {
		c := setup(t)
		err := c.ApplyDiscount(bob(101))
		assert.Equal(t, shared.ErrInvalidDiscount, err)
		assert.True(t, c.Total.Equals(bob(100)), "failed discount leaves totals unchanged")
	})

	t.Run("discount is clamped when items are removed", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(uuid.New(), nil, "", 1, bob(60), 10))
		require.NoError(t, c.AddItem(uuid.New(), nil, "", 1, bob(40), 10))
		require.NoError(t, c.ApplyDiscount(bob(50)))

		require.NoError(t, c.RemoveItem(c.Items[0].ID))

		assert.True(t, c.Subtotal.Equals(bob(40)))
		assert.True(t, c.Discount.Equals(bob(40)), "discount clamps to the new subtotal")
		assert.False(t, c.Total.IsNegative())
	})
}

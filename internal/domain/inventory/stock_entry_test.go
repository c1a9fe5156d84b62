package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockEntry(t *testing.T) {
	variantID, branchID := uuid.New(), uuid.New()
	entry := NewStockEntry(variantID, branchID)

	assert.Equal(t, variantID, entry.VariantID)
	assert.Equal(t, branchID, entry.BranchID)
	assert.Equal(t, 0, entry.Quantity)
	assert.Equal(t, 1, entry.GetVersion())
}

func TestStockEntry_Apply(t *testing.T) {
	t.Run("positive delta increases quantity", func(t *testing.T) {
		entry := NewStockEntry(uuid.New(), uuid.New())
		require.NoError(t, entry.Apply(10))
		assert.Equal(t, 10, entry.Quantity)
	})

	t.Run("negative delta decreases quantity", func(t *testing.T) {
		entry := NewStockEntry(uuid.New(), uuid.New())
		require.NoError(t, entry.Apply(10))
		require.NoError(t, entry.Apply(-4))
		assert.Equal(t, 6, entry.Quantity)
	})

	t.Run("delta below zero is rejected without mutation", func(t *testing.T) {
		entry := NewStockEntry(uuid.New(), uuid.New())
		require.NoError(t, entry.Apply(3))

		err := entry.Apply(-4)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, 3, entry.Quantity)
	})

	t.Run("exact drain to zero is allowed", func(t *testing.T) {
		entry := NewStockEntry(uuid.New(), uuid.New())
		require.NoError(t, entry.Apply(5))
		require.NoError(t, entry.Apply(-5))
		assert.Equal(t, 0, entry.Quantity)
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		entry := NewStockEntry(uuid.New(), uuid.New())
		require.Error(t, entry.Apply(0))
	})
}

func TestStockEntry_DeltaTo(t *testing.T) {
	entry := NewStockEntry(uuid.New(), uuid.New())
	require.NoError(t, entry.Apply(8))

	t.Run("computes delta up", func(t *testing.T) {
		delta, err := entry.DeltaTo(12)
		require.NoError(t, err)
		assert.Equal(t, 4, delta)
	})

	t.Run("computes delta down", func(t *testing.T) {
		delta, err := entry.DeltaTo(3)
		require.NoError(t, err)
		assert.Equal(t, -5, delta)
	})

	t.Run("same target yields zero delta", func(t *testing.T) {
		delta, err := entry.DeltaTo(8)
		require.NoError(t, err)
		assert.Equal(t, 0, delta)
	})

	t.Run("rejects negative target", func(t *testing.T) {
		_, err := entry.DeltaTo(-1)
		require.Error(t, err)
	})
}

func TestStockEntry_IsLow(t *testing.T) {
	entry := NewStockEntry(uuid.New(), uuid.New())
	require.NoError(t, entry.Apply(5))

	assert.True(t, entry.IsLow(5))
	assert.True(t, entry.IsLow(6))
	assert.False(t, entry.IsLow(4))
}

func TestNewStockMovement(t *testing.T) {
	variantID, branchID := uuid.New(), uuid.New()

	t.Run("creates movement with signed quantity", func(t *testing.T) {
		m, err := NewStockMovement(variantID, branchID, MovementAdjustment, -3, "damaged units")
		require.NoError(t, err)
		assert.Equal(t, MovementAdjustment, m.Type)
		assert.Equal(t, -3, m.Quantity)
		assert.Equal(t, "damaged units", m.Reason)
		assert.Nil(t, m.ReferenceID)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(variantID, branchID, MovementAdjustment, 0, "")
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewStockMovement(variantID, branchID, MovementType("DEVOLUCION"), 1, "")
		require.Error(t, err)
	})

	t.Run("links reference and actor", func(t *testing.T) {
		saleID, userID := uuid.New(), uuid.New()
		m, err := NewStockMovement(variantID, branchID, MovementSale, -1, "")
		require.NoError(t, err)

		m.WithReference(saleID).WithActor(userID)
		require.NotNil(t, m.ReferenceID)
		assert.Equal(t, saleID, *m.ReferenceID)
		require.NotNil(t, m.CreatedBy)
		assert.Equal(t, userID, *m.CreatedBy)
	})
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&cart.Cart{}, &cart.CartItem{})
	require.NoError(t, err)

	return db
}

func TestGormCartRepository_GetOrCreate(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	t.Run("creates empty cart when none exists", func(t *testing.T) {
		ownerID := uuid.New()

		c, err := repo.GetOrCreate(ctx, ownerID)
		require.NoError(t, err)

		assert.Equal(t, ownerID, c.OwnerID)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, "0", c.Total.Amount().String())
	})

	t.Run("returns existing cart on second call", func(t *testing.T) {
		ownerID := uuid.New()

		first, err := repo.GetOrCreate(ctx, ownerID)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, ownerID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})
}

func TestGormCartRepository_Save(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()

	c, err := repo.GetOrCreate(ctx, ownerID)
	require.NoError(t, err)

	err = c.AddItem(productID, &variantID, "M", 2, valueobject.NewMoneyBOBFromFloat(150), 10)
	require.NoError(t, err)
	err = c.AddItem(uuid.New(), nil, "", 1, valueobject.NewMoneyBOBFromFloat(80), 5)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, c))

	t.Run("persists items in sort order", func(t *testing.T) {
		found, err := repo.FindByOwner(ctx, ownerID)
		require.NoError(t, err)

		require.Len(t, found.Items, 2)
		assert.Equal(t, 0, found.Items[0].SortOrder)
		assert.Equal(t, productID, found.Items[0].ProductID)
		assert.Equal(t, "M", found.Items[0].Size)
		assert.Equal(t, 2, found.Items[0].Quantity)
		assert.Equal(t, "380", found.Total.Amount().String())
	})

	t.Run("removes dropped items on re-save", func(t *testing.T) {
		require.NoError(t, c.RemoveItem(c.Items[1].ID))
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByOwner(ctx, ownerID)
		require.NoError(t, err)

		require.Len(t, found.Items, 1)
		assert.Equal(t, productID, found.Items[0].ProductID)
		assert.Equal(t, "300", found.Total.Amount().String())
	})

	t.Run("clear leaves an empty shell", func(t *testing.T) {
		c.Clear()
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByOwner(ctx, ownerID)
		require.NoError(t, err)

		assert.True(t, found.IsEmpty())
		assert.Equal(t, "0", found.Total.Amount().String())
	})
}

func TestGormCartRepository_Delete(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	t.Run("deletes cart and items", func(t *testing.T) {
		ownerID := uuid.New()
		c, err := repo.GetOrCreate(ctx, ownerID)
		require.NoError(t, err)

		err = c.AddItem(uuid.New(), nil, "", 1, valueobject.NewMoneyBOBFromFloat(50), 3)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		require.NoError(t, repo.Delete(ctx, c.ID))

		_, err = repo.FindByOwner(ctx, ownerID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var count int64
		require.NoError(t, db.Model(&cart.CartItem{}).Where("cart_id = ?", c.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("returns not found for unknown cart", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

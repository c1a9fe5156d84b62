package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByOwner finds the owner's cart with items preloaded in order
func (r *GormCartRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&c, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetOrCreate returns the owner's cart, creating an empty one when none exists
func (r *GormCartRepository) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	c, err := r.FindByOwner(ctx, ownerID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c = cart.NewCart(ownerID)

	// ON CONFLICT handles two clients creating the cart at once
	if err := r.db.WithContext(ctx).
		Omit("Items").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoNothing: true,
		}).
		Create(c).Error; err != nil {
		return nil, err
	}

	return r.FindByOwner(ctx, ownerID)
}

// Save persists the cart and replaces its items
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(c).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(c.Items))
		for i, item := range c.Items {
			currentIDs[i] = item.ID
		}

		query := tx.Where("cart_id = ?", c.ID)
		if len(currentIDs) > 0 {
			query = query.Where("id NOT IN ?", currentIDs)
		}
		if err := query.Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		for i := range c.Items {
			c.Items[i].CartID = c.ID
			if err := tx.Save(&c.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&cart.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCartRepository implements Repository
var _ cart.Repository = (*GormCartRepository)(nil)

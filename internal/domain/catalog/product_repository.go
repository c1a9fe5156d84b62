package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, with variants preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter. The filter supports
	// "category", "visible" and "drop_id" keys plus free-text search on
	// name and description.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindVisible finds storefront-visible products matching the filter
	FindVisible(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindVariantByID finds a single variant by its ID
	FindVariantByID(ctx context.Context, variantID uuid.UUID) (*ProductVariant, error)

	// Save creates or updates a product and its variants
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, product *Product) error

	// DecrementStock removes quantity from the storefront stock counter as a
	// single conditional UPDATE. Returns shared.ErrInsufficientStock when the
	// counter would go below zero, without modifying the row.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DropRepository defines the interface for drop persistence
type DropRepository interface {
	// FindByID finds a drop by its ID, with its product links preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Drop, error)

	// FindAll finds all drops matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Drop, error)

	// FindLive finds drops that are ACTIVO and already launched,
	// ordered by launch date descending
	FindLive(ctx context.Context) ([]Drop, error)

	// FindFeatured finds the live drops flagged as featured
	FindFeatured(ctx context.Context) ([]Drop, error)

	// Save creates or updates a drop and replaces its product links
	Save(ctx context.Context, drop *Drop) error

	// Delete deletes a drop
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts drops matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

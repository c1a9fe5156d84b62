package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// StockRepository defines the interface for stock entry persistence.
//
// Adjust is the only way quantities change: it performs an atomic conditional
// update (quantity can never go below zero even under concurrent writers).
// Cross-branch transfers run both legs through Adjust inside one transaction
// owned by the application service.
type StockRepository interface {
	// FindByVariantAndBranch finds the entry for a (variant, branch) pair.
	// Returns shared.ErrNotFound when the pair was never initialized.
	FindByVariantAndBranch(ctx context.Context, variantID, branchID uuid.UUID) (*StockEntry, error)

	// FindByBranch finds all entries at a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]StockEntry, error)

	// FindByVariant finds the entries of a variant across branches
	FindByVariant(ctx context.Context, variantID uuid.UUID) ([]StockEntry, error)

	// FindLowStock finds entries at or below the threshold for a branch
	FindLowStock(ctx context.Context, branchID uuid.UUID, threshold int) ([]StockEntry, error)

	// GetOrCreate returns the entry for the pair, creating a zero-quantity
	// row when none exists. Concurrent creation must yield a single row.
	GetOrCreate(ctx context.Context, variantID, branchID uuid.UUID) (*StockEntry, error)

	// Adjust applies a signed delta as a single conditional UPDATE.
	// Returns shared.ErrInsufficientStock when the delta would push the
	// quantity below zero, without modifying the row.
	Adjust(ctx context.Context, variantID, branchID uuid.UUID, delta int) error

	// Save creates or updates an entry
	Save(ctx context.Context, entry *StockEntry) error
}

// MovementRepository defines the interface for the stock audit trail
type MovementRepository interface {
	// Append writes an audit row. Movements are never updated or deleted.
	Append(ctx context.Context, movement *StockMovement) error

	// FindByVariant lists movements of a variant, newest first
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByBranch lists movements at a branch, newest first
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
}

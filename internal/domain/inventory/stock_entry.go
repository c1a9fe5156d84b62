package inventory

import (
	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// StockEntry is the per-branch stock counter of a product variant. There is
// at most one entry per (variant, branch) pair and its quantity never goes
// below zero. All mutations are expressed as signed deltas; an absolute set
// is translated into a delta by the application layer.
type StockEntry struct {
	shared.BranchAggregateRoot
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_variant_branch"`
	Quantity  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry creates a zero-quantity entry for a variant at a branch
func NewStockEntry(variantID, branchID uuid.UUID) *StockEntry {
	return &StockEntry{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		VariantID:           variantID,
	}
}

// Apply mutates the quantity by a signed delta.
// Returns INSUFFICIENT_STOCK when the result would be negative.
func (s *StockEntry) Apply(delta int) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Delta cannot be zero")
	}
	if s.Quantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	s.Quantity += delta
	return nil
}

// DeltaTo returns the signed delta that moves the current quantity to the
// given absolute target
func (s *StockEntry) DeltaTo(target int) (int, error) {
	if target < 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Stock cannot be set below zero")
	}
	return target - s.Quantity, nil
}

// IsLow reports whether the quantity is at or below the threshold
func (s *StockEntry) IsLow(threshold int) bool {
	return s.Quantity <= threshold
}

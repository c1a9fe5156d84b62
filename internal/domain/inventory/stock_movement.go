package inventory

import (
	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// MovementType classifies a stock mutation for the audit trail
type MovementType string

const (
	MovementAdjustment MovementType = "AJUSTE"
	MovementTransfer   MovementType = "TRANSFERENCIA"
	MovementSale       MovementType = "VENTA"
)

// StockMovement is an append-only audit row for every stock mutation. The
// quantity carries the sign of the mutation: positive for additions,
// negative for removals.
type StockMovement struct {
	shared.BaseEntity
	VariantID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type        MovementType `gorm:"size:20;not null"`
	Quantity    int          `gorm:"not null"`
	Reason      string       `gorm:"size:300"`
	ReferenceID *uuid.UUID   `gorm:"type:uuid;index"`
	CreatedBy   *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a stock mutation for the audit trail
func NewStockMovement(variantID, branchID uuid.UUID, movementType MovementType, quantity int, reason string) (*StockMovement, error) {
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement quantity cannot be zero")
	}
	switch movementType {
	case MovementAdjustment, MovementTransfer, MovementSale:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		BranchID:   branchID,
		Type:       movementType,
		Quantity:   quantity,
		Reason:     reason,
	}, nil
}

// WithReference links the movement to the row that caused it (e.g. a sale)
func (m *StockMovement) WithReference(referenceID uuid.UUID) *StockMovement {
	m.ReferenceID = &referenceID
	return m
}

// WithActor records the user that triggered the movement
func (m *StockMovement) WithActor(userID uuid.UUID) *StockMovement {
	m.CreatedBy = &userID
	return m
}

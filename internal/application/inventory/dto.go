package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/inventory"
)

// AdjustStockRequest contains a signed delta to apply to a stock entry
type AdjustStockRequest struct {
	VariantID uuid.UUID `json:"variantId" binding:"required"`
	BranchID  uuid.UUID `json:"branchId" binding:"required"`
	Delta     int       `json:"delta" binding:"required"`
	Reason    string    `json:"reason" binding:"max=300"`
}

// SetStockRequest contains an absolute quantity to set a stock entry to
type SetStockRequest struct {
	VariantID uuid.UUID `json:"variantId" binding:"required"`
	BranchID  uuid.UUID `json:"branchId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=0"`
	Reason    string    `json:"reason" binding:"max=300"`
}

// TransferRequest contains the data to move stock between two branches
type TransferRequest struct {
	VariantID    uuid.UUID `json:"variantId" binding:"required"`
	FromBranchID uuid.UUID `json:"fromBranchId" binding:"required"`
	ToBranchID   uuid.UUID `json:"toBranchId" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	Reason       string    `json:"reason" binding:"max=300"`
}

// ListFilter contains query parameters for stock and movement listings
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir"`
}

// StockEntryResponse is the API representation of a stock entry
type StockEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	VariantID uuid.UUID `json:"variantId"`
	BranchID  uuid.UUID `json:"branchId"`
	Quantity  int       `json:"quantity"`
	Low       bool      `json:"low"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToStockEntryResponse converts a domain stock entry to its API representation
func ToStockEntryResponse(entry *inventory.StockEntry, lowThreshold int) StockEntryResponse {
	return StockEntryResponse{
		ID:        entry.ID,
		VariantID: entry.VariantID,
		BranchID:  entry.BranchID,
		Quantity:  entry.Quantity,
		Low:       entry.IsLow(lowThreshold),
		UpdatedAt: entry.UpdatedAt,
	}
}

// TransferResponse returns both sides of a completed transfer
type TransferResponse struct {
	TransferID uuid.UUID          `json:"transferId"`
	From       StockEntryResponse `json:"from"`
	To         StockEntryResponse `json:"to"`
}

// MovementResponse is the API representation of a stock movement
type MovementResponse struct {
	ID          uuid.UUID  `json:"id"`
	VariantID   uuid.UUID  `json:"variantId"`
	BranchID    uuid.UUID  `json:"branchId"`
	Type        string     `json:"type"`
	Quantity    int        `json:"quantity"`
	Reason      string     `json:"reason,omitempty"`
	ReferenceID *uuid.UUID `json:"referenceId,omitempty"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToMovementResponse converts a domain stock movement to its API representation
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		VariantID:   m.VariantID,
		BranchID:    m.BranchID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

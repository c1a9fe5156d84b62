package cashier

import (
	"strings"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// MovementType classifies a cash movement
type MovementType string

const (
	MovementIncome  MovementType = "INGRESO"
	MovementExpense MovementType = "EGRESO"
)

// PaymentMethod is how money entered or left the register
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "EFECTIVO"
	PaymentQR   PaymentMethod = "QR"
	PaymentCard PaymentMethod = "TARJETA"
)

// ReferenceSale tags movements generated by a finalized sale
const ReferenceSale = "SALE"

// CashMovement is one append-only ledger row of a register session.
// Movements are only accepted while the register is ABIERTA.
type CashMovement struct {
	shared.BaseEntity
	RegisterID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type          MovementType      `gorm:"size:10;not null"`
	PaymentMethod PaymentMethod     `gorm:"size:10;not null"`
	Amount        valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Concept       string            `gorm:"size:300;not null"`
	ReferenceType *string           `gorm:"size:20"`
	ReferenceID   *uuid.UUID        `gorm:"type:uuid;index"`
	CreatedBy     *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CashMovement) TableName() string {
	return "cash_movements"
}

func newMovement(registerID, branchID uuid.UUID, movementType MovementType, method PaymentMethod, amount valueobject.Money, concept string) *CashMovement {
	return &CashMovement{
		BaseEntity:    shared.NewBaseEntity(),
		RegisterID:    registerID,
		BranchID:      branchID,
		Type:          movementType,
		PaymentMethod: method,
		Amount:        amount,
		Concept:       strings.TrimSpace(concept),
	}
}

// NewCashMovement creates a validated ledger row for an open register
func NewCashMovement(register *CashRegister, movementType MovementType, method PaymentMethod, amount valueobject.Money, concept string) (*CashMovement, error) {
	if register == nil || !register.IsOpen() {
		return nil, shared.ErrRegisterNotOpen
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement amount must be greater than zero")
	}
	switch movementType {
	case MovementIncome, MovementExpense:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	switch method {
	case PaymentCash, PaymentQR, PaymentCard:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown payment method")
	}
	if strings.TrimSpace(concept) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement concept is required")
	}

	return newMovement(register.ID, register.BranchID, movementType, method, amount, concept), nil
}

// WithSaleReference links the movement to the sale that produced it
func (m *CashMovement) WithSaleReference(saleID uuid.UUID) *CashMovement {
	ref := ReferenceSale
	m.ReferenceType = &ref
	m.ReferenceID = &saleID
	return m
}

// WithActor records the user that posted the movement
func (m *CashMovement) WithActor(userID uuid.UUID) *CashMovement {
	m.CreatedBy = &userID
	return m
}

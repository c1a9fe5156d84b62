package cashier

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// RegisterStatus represents the lifecycle state of a cash register session
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "ABIERTA"
	RegisterClosed RegisterStatus = "CERRADA"
)

// ExpectedTotals holds the amounts a register should contain at close time,
// derived from its INGRESO movements grouped by payment method.
type ExpectedTotals struct {
	Cash  valueobject.Money
	QR    valueobject.Money
	Card  valueobject.Money
	Total valueobject.Money
}

// CashRegister is one cashier session at a branch. A branch has at most one
// ABIERTA register at any time (enforced here and by a partial unique index).
// Closing records the counted cash and the difference against the expected
// cash; a mismatch is recorded, never rejected.
type CashRegister struct {
	shared.BranchAggregateRoot
	Status         RegisterStatus     `gorm:"size:20;not null;default:'ABIERTA';index"`
	OpeningAmount  valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	OpenedBy       uuid.UUID          `gorm:"type:uuid;not null"`
	OpenedAt       time.Time          `gorm:"not null"`
	OpeningNotes   string             `gorm:"size:500"`
	ClosedBy       *uuid.UUID         `gorm:"type:uuid"`
	ClosedAt       *time.Time         `gorm:""`
	ClosingAmount  *valueobject.Money `gorm:"type:decimal(12,2)"`
	ClosingNotes   string             `gorm:"size:500"`
	ExpectedCash   valueobject.Money  `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedQR     valueobject.Money  `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedCard   valueobject.Money  `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedTotal  valueobject.Money  `gorm:"type:decimal(12,2);not null;default:0"`
	CashDifference valueobject.Money  `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// OpenRegister starts a new session with an opening cash float
func OpenRegister(branchID, userID uuid.UUID, openingAmount valueobject.Money, notes string) (*CashRegister, error) {
	if openingAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Opening amount cannot be negative")
	}

	return &CashRegister{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		Status:              RegisterOpen,
		OpeningAmount:       openingAmount,
		OpenedBy:            userID,
		OpenedAt:            time.Now(),
		OpeningNotes:        strings.TrimSpace(notes),
		ExpectedCash:        valueobject.ZeroBOB(),
		ExpectedQR:          valueobject.ZeroBOB(),
		ExpectedCard:        valueobject.ZeroBOB(),
		ExpectedTotal:       valueobject.ZeroBOB(),
		CashDifference:      valueobject.ZeroBOB(),
	}, nil
}

// IsOpen reports whether the session accepts movements
func (r *CashRegister) IsOpen() bool {
	return r.Status == RegisterOpen
}

// OpeningMovement builds the synthetic INGRESO that seeds the cash float.
// It is posted right after the register row is created so the expected cash
// at close time includes the float.
func (r *CashRegister) OpeningMovement() *CashMovement {
	m := newMovement(r.ID, r.BranchID, MovementIncome, PaymentCash, r.OpeningAmount, "Apertura de caja")
	m.CreatedBy = &r.OpenedBy
	return m
}

// Close finishes the session. The expected totals come from the INGRESO
// movements of the session; the difference between the counted cash and the
// expected cash is recorded as-is.
func (r *CashRegister) Close(userID uuid.UUID, countedCash valueobject.Money, notes string, expected ExpectedTotals) error {
	if !r.IsOpen() {
		return shared.ErrRegisterNotOpen
	}
	if countedCash.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Counted cash cannot be negative")
	}

	now := time.Now()
	r.Status = RegisterClosed
	r.ClosedBy = &userID
	r.ClosedAt = &now
	r.ClosingAmount = &countedCash
	r.ClosingNotes = strings.TrimSpace(notes)
	r.ExpectedCash = expected.Cash
	r.ExpectedQR = expected.QR
	r.ExpectedCard = expected.Card
	r.ExpectedTotal = expected.Total
	r.CashDifference = countedCash.MustSubtract(expected.Cash)
	return nil
}

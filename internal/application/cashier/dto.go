package cashier

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/shopspring/decimal"
)

// OpenRegisterRequest contains the data to start a register session
type OpenRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"openingAmount" binding:"required"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// CloseRegisterRequest contains the counted cash for the reconciliation
type CloseRegisterRequest struct {
	CountedCash decimal.Decimal `json:"countedCash" binding:"required"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// MovementRequest contains the data to post a manual cash movement
type MovementRequest struct {
	Type          string          `json:"type" binding:"required,oneof=INGRESO EGRESO"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=EFECTIVO QR TARJETA"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Concept       string          `json:"concept" binding:"required,max=300"`
}

// HistoryFilter contains query parameters for listing past sessions
type HistoryFilter struct {
	Status   string     `form:"status"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
	OrderBy  string     `form:"orderBy"`
	OrderDir string     `form:"orderDir"`
}

// RegisterResponse is the API representation of a register session
type RegisterResponse struct {
	ID             uuid.UUID        `json:"id"`
	BranchID       uuid.UUID        `json:"branchId"`
	Status         string           `json:"status"`
	OpeningAmount  decimal.Decimal  `json:"openingAmount"`
	OpenedBy       uuid.UUID        `json:"openedBy"`
	OpenedAt       time.Time        `json:"openedAt"`
	OpeningNotes   string           `json:"openingNotes,omitempty"`
	ClosedBy       *uuid.UUID       `json:"closedBy,omitempty"`
	ClosedAt       *time.Time       `json:"closedAt,omitempty"`
	ClosingAmount  *decimal.Decimal `json:"closingAmount,omitempty"`
	ClosingNotes   string           `json:"closingNotes,omitempty"`
	ExpectedCash   decimal.Decimal  `json:"expectedCash"`
	ExpectedQR     decimal.Decimal  `json:"expectedQr"`
	ExpectedCard   decimal.Decimal  `json:"expectedCard"`
	ExpectedTotal  decimal.Decimal  `json:"expectedTotal"`
	CashDifference decimal.Decimal  `json:"cashDifference"`
}

// ToRegisterResponse converts a domain register to its API representation
func ToRegisterResponse(r *cashier.CashRegister) RegisterResponse {
	response := RegisterResponse{
		ID:             r.ID,
		BranchID:       r.BranchID,
		Status:         string(r.Status),
		OpeningAmount:  r.OpeningAmount.Amount(),
		OpenedBy:       r.OpenedBy,
		OpenedAt:       r.OpenedAt,
		OpeningNotes:   r.OpeningNotes,
		ClosedBy:       r.ClosedBy,
		ClosedAt:       r.ClosedAt,
		ClosingNotes:   r.ClosingNotes,
		ExpectedCash:   r.ExpectedCash.Amount(),
		ExpectedQR:     r.ExpectedQR.Amount(),
		ExpectedCard:   r.ExpectedCard.Amount(),
		ExpectedTotal:  r.ExpectedTotal.Amount(),
		CashDifference: r.CashDifference.Amount(),
	}
	if r.ClosingAmount != nil {
		amount := r.ClosingAmount.Amount()
		response.ClosingAmount = &amount
	}
	return response
}

// CashMovementResponse is the API representation of a ledger row
type CashMovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	RegisterID    uuid.UUID       `json:"registerId"`
	BranchID      uuid.UUID       `json:"branchId"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	Concept       string          `json:"concept"`
	ReferenceType *string         `json:"referenceType,omitempty"`
	ReferenceID   *uuid.UUID      `json:"referenceId,omitempty"`
	CreatedBy     *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToCashMovementResponse converts a domain movement to its API representation
func ToCashMovementResponse(m *cashier.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:            m.ID,
		RegisterID:    m.RegisterID,
		BranchID:      m.BranchID,
		Type:          string(m.Type),
		PaymentMethod: string(m.PaymentMethod),
		Amount:        m.Amount.Amount(),
		Concept:       m.Concept,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// RegisterSummaryResponse is the live view of a session: the register, its
// per-method income so far and the ledger rows. LedgerTruncated tells the
// client the embedded ledger was cut at the cap and the rest must be read
// through the movement listing.
type RegisterSummaryResponse struct {
	Register        RegisterResponse       `json:"register"`
	IncomeCash      decimal.Decimal        `json:"incomeCash"`
	IncomeQR        decimal.Decimal        `json:"incomeQr"`
	IncomeCard      decimal.Decimal        `json:"incomeCard"`
	IncomeTotal     decimal.Decimal        `json:"incomeTotal"`
	SalesCount      int64                  `json:"salesCount"`
	MovementCount   int                    `json:"movementCount"`
	Movements       []CashMovementResponse `json:"movements"`
	LedgerTruncated bool                   `json:"ledgerTruncated"`
}

package cashier

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// RegisterRepository defines the interface for cash register persistence
type RegisterRepository interface {
	// FindByID finds a register by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindOpenByBranch finds the single ABIERTA register of a branch.
	// Returns shared.ErrNotFound when the branch has no open register.
	FindOpenByBranch(ctx context.Context, branchID uuid.UUID) (*CashRegister, error)

	// FindHistory lists registers of a branch, newest first. The filter
	// supports "status", "from" and "to" keys on the opening time.
	FindHistory(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]CashRegister, error)

	// Save creates or updates a register. Creating a second ABIERTA
	// register for the same branch must fail with REGISTER_ALREADY_OPEN
	// (backed by a partial unique index).
	Save(ctx context.Context, register *CashRegister) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, register *CashRegister) error

	// Count counts registers of a branch matching the filter
	Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error)
}

// MovementRepository defines the interface for the cash ledger
type MovementRepository interface {
	// Append writes a ledger row. Movements are never updated or deleted.
	Append(ctx context.Context, movement *CashMovement) error

	// FindByRegister lists the movements of a session in posting order
	FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]CashMovement, error)

	// SumIncomeByMethod sums the INGRESO amounts of a session grouped by
	// payment method. Methods without movements map to zero.
	SumIncomeByMethod(ctx context.Context, registerID uuid.UUID) (map[PaymentMethod]valueobject.Money, error)

	// CountSales counts the movements referencing a sale in a session
	CountSales(ctx context.Context, registerID uuid.UUID) (int64, error)
}

// ComputeExpectedTotals folds per-method income sums into the totals a
// register should hold at close time
func ComputeExpectedTotals(income map[PaymentMethod]valueobject.Money) ExpectedTotals {
	get := func(method PaymentMethod) valueobject.Money {
		if m, ok := income[method]; ok {
			return m
		}
		return valueobject.ZeroBOB()
	}

	cash := get(PaymentCash)
	qr := get(PaymentQR)
	card := get(PaymentCard)
	return ExpectedTotals{
		Cash:  cash,
		QR:    qr,
		Card:  card,
		Total: cash.MustAdd(qr).MustAdd(card),
	}
}

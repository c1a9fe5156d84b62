package cashier

import (
	"context"

	"github.com/outsiders/backend/internal/domain/cashier"
)

// TransactionScope provides transactional access to cashier repositories.
// Opening a register writes the register row and its opening INGRESO through
// one scope; closing reads the session sums and updates the register in the
// same transaction so the reconciliation cannot race a late movement.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the cashier repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// RegisterRepo returns the cash register repository scoped to the current transaction
	RegisterRepo() cashier.RegisterRepository
	// CashMovementRepo returns the cash movement repository scoped to the current transaction
	CashMovementRepo() cashier.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	registerRepo cashier.RegisterRepository
	movementRepo cashier.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(registerRepo cashier.RegisterRepository, movementRepo cashier.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		registerRepo: registerRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegisterRepo returns the cash register repository.
func (s *NoOpTransactionScope) RegisterRepo() cashier.RegisterRepository {
	return s.registerRepo
}

// CashMovementRepo returns the cash movement repository.
func (s *NoOpTransactionScope) CashMovementRepo() cashier.MovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

package inventory

import (
	"context"

	"github.com/outsiders/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories within
// a transaction. All repositories returned share the same underlying database
// transaction. A cross-branch transfer debits one entry, credits the other and
// appends both audit rows through a single scope, so either everything lands
// or nothing does.
type TransactionalRepositories interface {
	// StockRepo returns the stock entry repository scoped to the current transaction
	StockRepo() inventory.StockRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	stockRepo    inventory.StockRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(stockRepo inventory.StockRepository, movementRepo inventory.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock entry repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository {
	return s.stockRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

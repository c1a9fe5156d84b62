package persistence

import (
	"context"

	appinv "github.com/outsiders/backend/internal/application/inventory"
	"github.com/outsiders/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions. A transfer debits one entry, credits the other and
// appends both audit rows atomically through it.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryTxRepositories{tx: tx})
	})
}

type gormInventoryTxRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the stock entry repository scoped to the current transaction
func (r *gormInventoryTxRepositories) StockRepo() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormInventoryTxRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure GormInventoryTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)

// Ensure gormInventoryTxRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormInventoryTxRepositories)(nil)

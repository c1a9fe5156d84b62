package persistence

import (
	"context"

	appcashier "github.com/outsiders/backend/internal/application/cashier"
	"github.com/outsiders/backend/internal/domain/cashier"
	"gorm.io/gorm"
)

// GormCashierTransactionScope implements the cashier TransactionScope using
// GORM transactions. Opening writes the register and its opening INGRESO
// together; closing sums the session and updates the register in one go.
type GormCashierTransactionScope struct {
	db *gorm.DB
}

// NewGormCashierTransactionScope creates a new GormCashierTransactionScope
func NewGormCashierTransactionScope(db *gorm.DB) *GormCashierTransactionScope {
	return &GormCashierTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCashierTransactionScope) Execute(ctx context.Context, fn func(repos appcashier.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCashierTxRepositories{tx: tx})
	})
}

type gormCashierTxRepositories struct {
	tx *gorm.DB
}

// RegisterRepo returns the cash register repository scoped to the current transaction
func (r *gormCashierTxRepositories) RegisterRepo() cashier.RegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

// CashMovementRepo returns the cash movement repository scoped to the current transaction
func (r *gormCashierTxRepositories) CashMovementRepo() cashier.MovementRepository {
	return NewGormCashMovementRepository(r.tx)
}

// Ensure GormCashierTransactionScope implements TransactionScope
var _ appcashier.TransactionScope = (*GormCashierTransactionScope)(nil)

// Ensure gormCashierTxRepositories implements TransactionalRepositories
var _ appcashier.TransactionalRepositories = (*gormCashierTxRepositories)(nil)

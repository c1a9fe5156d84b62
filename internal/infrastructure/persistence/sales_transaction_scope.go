package persistence

import (
	"context"

	appsales "github.com/outsiders/backend/internal/application/sales"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesTransactionScope implements the sales TransactionScope using GORM
// transactions. A checkout spans order, product stock and cart rows; a POS
// sale spans sale, branch stock and register ledger rows. Both land atomically.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesTxRepositories{tx: tx})
	})
}

type gormSalesTxRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormSalesTxRepositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormSalesTxRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormSalesTxRepositories) CartRepo() cart.Repository {
	return NewGormCartRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormSalesTxRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StockRepo returns the stock entry repository scoped to the current transaction
func (r *gormSalesTxRepositories) StockRepo() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

// StockMovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormSalesTxRepositories) StockMovementRepo() inventory.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// RegisterRepo returns the cash register repository scoped to the current transaction
func (r *gormSalesTxRepositories) RegisterRepo() cashier.RegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

// CashMovementRepo returns the cash movement repository scoped to the current transaction
func (r *gormSalesTxRepositories) CashMovementRepo() cashier.MovementRepository {
	return NewGormCashMovementRepository(r.tx)
}

// Ensure GormSalesTransactionScope implements TransactionScope
var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)

// Ensure gormSalesTxRepositories implements TransactionalRepositories
var _ appsales.TransactionalRepositories = (*gormSalesTxRepositories)(nil)

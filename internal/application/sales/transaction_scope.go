package sales

import (
	"context"

	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a
// checkout or a POS sale touches. Both operations cross aggregate boundaries
// (order + stock + cart, sale + stock + register ledger) and must land
// atomically: either every row is written or none is.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() cart.Repository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// StockRepo returns the stock entry repository scoped to the current transaction
	StockRepo() inventory.StockRepository
	// StockMovementRepo returns the stock movement repository scoped to the current transaction
	StockMovementRepo() inventory.MovementRepository
	// RegisterRepo returns the cash register repository scoped to the current transaction
	RegisterRepo() cashier.RegisterRepository
	// CashMovementRepo returns the cash movement repository scoped to the current transaction
	CashMovementRepo() cashier.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	orderRepo         sales.OrderRepository
	saleRepo          sales.SaleRepository
	cartRepo          cart.Repository
	productRepo       catalog.ProductRepository
	stockRepo         inventory.StockRepository
	stockMovementRepo inventory.MovementRepository
	registerRepo      cashier.RegisterRepository
	cashMovementRepo  cashier.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo sales.OrderRepository,
	saleRepo sales.SaleRepository,
	cartRepo cart.Repository,
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockRepository,
	stockMovementRepo inventory.MovementRepository,
	registerRepo cashier.RegisterRepository,
	cashMovementRepo cashier.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:         orderRepo,
		saleRepo:          saleRepo,
		cartRepo:          cartRepo,
		productRepo:       productRepo,
		stockRepo:         stockRepo,
		stockMovementRepo: stockMovementRepo,
		registerRepo:      registerRepo,
		cashMovementRepo:  cashMovementRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() cart.Repository {
	return s.cartRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StockRepo returns the stock entry repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository {
	return s.stockRepo
}

// StockMovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) StockMovementRepo() inventory.MovementRepository {
	return s.stockMovementRepo
}

// RegisterRepo returns the cash register repository.
func (s *NoOpTransactionScope) RegisterRepo() cashier.RegisterRepository {
	return s.registerRepo
}

// CashMovementRepo returns the cash movement repository.
func (s *NoOpTransactionScope) CashMovementRepo() cashier.MovementRepository {
	return s.cashMovementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

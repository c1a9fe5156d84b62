package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of sales.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByRegister(ctx context.Context, registerID uuid.UUID) ([]sales.Sale, error) {
	args := m.Called(ctx, registerID)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) SalesStats(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (sales.SalesStats, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(sales.SalesStats), args.Error(1)
}

func (m *MockSaleRepository) TopProducts(ctx context.Context, branchID *uuid.UUID, from, to time.Time, limit int) ([]sales.ProductRank, error) {
	args := m.Called(ctx, branchID, from, to, limit)
	return args.Get(0).([]sales.ProductRank), args.Error(1)
}

func (m *MockSaleRepository) PaymentBreakdown(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (map[sales.PaymentType]sales.SalesStats, error) {
	args := m.Called(ctx, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[sales.PaymentType]sales.SalesStats), args.Error(1)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVisible(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVariantByID(ctx context.Context, variantID uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockRepository is a mock implementation of inventory.StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindByVariantAndBranch(ctx context.Context, variantID, branchID uuid.UUID) (*inventory.StockEntry, error) {
	args := m.Called(ctx, variantID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockEntry), args.Error(1)
}

func (m *MockStockRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockEntry, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.StockEntry), args.Error(1)
}

func (m *MockStockRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.StockEntry, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).([]inventory.StockEntry), args.Error(1)
}

func (m *MockStockRepository) FindLowStock(ctx context.Context, branchID uuid.UUID, threshold int) ([]inventory.StockEntry, error) {
	args := m.Called(ctx, branchID, threshold)
	return args.Get(0).([]inventory.StockEntry), args.Error(1)
}

func (m *MockStockRepository) GetOrCreate(ctx context.Context, variantID, branchID uuid.UUID) (*inventory.StockEntry, error) {
	args := m.Called(ctx, variantID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockEntry), args.Error(1)
}

func (m *MockStockRepository) Adjust(ctx context.Context, variantID, branchID uuid.UUID, delta int) error {
	args := m.Called(ctx, variantID, branchID, delta)
	return args.Error(0)
}

func (m *MockStockRepository) Save(ctx context.Context, entry *inventory.StockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockStockMovementRepository is a mock implementation of inventory.MovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, variantID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

// MockRegisterRepository is a mock implementation of cashier.RegisterRepository
type MockRegisterRepository struct {
	mock.Mock
}

func (m *MockRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindOpenByBranch(ctx context.Context, branchID uuid.UUID) (*cashier.CashRegister, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindHistory(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]cashier.CashRegister, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]cashier.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) Save(ctx context.Context, register *cashier.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockRegisterRepository) SaveWithLock(ctx context.Context, register *cashier.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockRegisterRepository) Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCashMovementRepository is a mock implementation of cashier.MovementRepository
type MockCashMovementRepository struct {
	mock.Mock
}

func (m *MockCashMovementRepository) Append(ctx context.Context, movement *cashier.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockCashMovementRepository) FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]cashier.CashMovement, error) {
	args := m.Called(ctx, registerID, filter)
	return args.Get(0).([]cashier.CashMovement), args.Error(1)
}

func (m *MockCashMovementRepository) SumIncomeByMethod(ctx context.Context, registerID uuid.UUID) (map[cashier.PaymentMethod]valueobject.Money, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[cashier.PaymentMethod]valueobject.Money), args.Error(1)
}

func (m *MockCashMovementRepository) CountSales(ctx context.Context, registerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, registerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type testRepos struct {
	orders         *MockOrderRepository
	sales          *MockSaleRepository
	carts          *MockCartRepository
	products       *MockProductRepository
	stock          *MockStockRepository
	stockMovements *MockStockMovementRepository
	registers      *MockRegisterRepository
	cashMovements  *MockCashMovementRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		orders:         new(MockOrderRepository),
		sales:          new(MockSaleRepository),
		carts:          new(MockCartRepository),
		products:       new(MockProductRepository),
		stock:          new(MockStockRepository),
		stockMovements: new(MockStockMovementRepository),
		registers:      new(MockRegisterRepository),
		cashMovements:  new(MockCashMovementRepository),
	}
}

func (r *testRepos) scope() TransactionScope {
	return NewNoOpTransactionScope(
		r.orders, r.sales, r.carts, r.products,
		r.stock, r.stockMovements, r.registers, r.cashMovements)
}

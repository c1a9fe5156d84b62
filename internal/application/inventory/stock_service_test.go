package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, variantID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func newTestService(stockRepo *MockStockRepository, movementRepo *MockMovementRepository) *StockService {
	scope := NewNoOpTransactionScope(stockRepo, movementRepo)
	return NewStockService(scope, stockRepo, movementRepo, 5, zap.NewNop())
}

func entryWith(variantID, branchID uuid.UUID, quantity int) *inventory.StockEntry {
	entry := inventory.NewStockEntry(variantID, branchID)
	entry.Quantity = quantity
	return entry
}

func TestStockService_Adjust(t *testing.T) {
	actorID := uuid.New()
	variantID := uuid.New()
	branchID := uuid.New()

	t.Run("applies delta and records movement", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("GetOrCreate", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 10), nil)
		stockRepo.On("Adjust", mock.Anything, variantID, branchID, 3).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Type == inventory.MovementAdjustment &&
				m.Quantity == 3 &&
				m.Reason == "reposición" &&
				m.CreatedBy != nil && *m.CreatedBy == actorID
		})).Return(nil)
		stockRepo.On("FindByVariantAndBranch", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 13), nil)

		resp, err := svc.Adjust(context.Background(), actorID, AdjustStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Delta:     3,
			Reason:    "reposición",
		})

		require.NoError(t, err)
		assert.Equal(t, 13, resp.Quantity)
		assert.False(t, resp.Low)
		movementRepo.AssertExpectations(t)
	})

	t.Run("zero delta is rejected before any write", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		_, err := svc.Adjust(context.Background(), actorID, AdjustStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Delta:     0,
		})

		require.Error(t, err)
		stockRepo.AssertNotCalled(t, "Adjust")
	})

	t.Run("insufficient stock leaves no movement", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("GetOrCreate", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 2), nil)
		stockRepo.On("Adjust", mock.Anything, variantID, branchID, -5).Return(shared.ErrInsufficientStock)

		_, err := svc.Adjust(context.Background(), actorID, AdjustStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Delta:     -5,
		})

		assert.Equal(t, shared.ErrInsufficientStock, err)
		movementRepo.AssertNotCalled(t, "Append")
	})
}

func TestStockService_SetAbsolute(t *testing.T) {
	actorID := uuid.New()
	variantID := uuid.New()
	branchID := uuid.New()

	t.Run("translates the target into a delta", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("GetOrCreate", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 10), nil)
		stockRepo.On("Adjust", mock.Anything, variantID, branchID, -6).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Type == inventory.MovementAdjustment && m.Quantity == -6
		})).Return(nil)
		stockRepo.On("FindByVariantAndBranch", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 4), nil)

		resp, err := svc.SetAbsolute(context.Background(), actorID, SetStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Quantity:  4,
			Reason:    "inventario físico",
		})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Quantity)
		assert.True(t, resp.Low)
	})

	t.Run("setting the current quantity is a no-op", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("GetOrCreate", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 7), nil)

		resp, err := svc.SetAbsolute(context.Background(), actorID, SetStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Quantity:  7,
		})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
		stockRepo.AssertNotCalled(t, "Adjust")
		movementRepo.AssertNotCalled(t, "Append")
	})

	t.Run("negative target is rejected", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("GetOrCreate", mock.Anything, variantID, branchID).Return(entryWith(variantID, branchID, 7), nil)

		_, err := svc.SetAbsolute(context.Background(), actorID, SetStockRequest{
			VariantID: variantID,
			BranchID:  branchID,
			Quantity:  -1,
		})

		require.Error(t, err)
		stockRepo.AssertNotCalled(t, "Adjust")
	})
}

func TestStockService_Transfer(t *testing.T) {
	actorID := uuid.New()
	variantID := uuid.New()
	fromBranch := uuid.New()
	toBranch := uuid.New()

	t.Run("debits, credits and records both movements", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("Adjust", mock.Anything, variantID, fromBranch, -4).Return(nil)
		stockRepo.On("GetOrCreate", mock.Anything, variantID, toBranch).Return(entryWith(variantID, toBranch, 0), nil)
		stockRepo.On("Adjust", mock.Anything, variantID, toBranch, 4).Return(nil)

		var refs []uuid.UUID
		movementRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			if m.Type != inventory.MovementTransfer || m.ReferenceID == nil {
				return false
			}
			refs = append(refs, *m.ReferenceID)
			return true
		})).Return(nil).Twice()

		stockRepo.On("FindByVariantAndBranch", mock.Anything, variantID, fromBranch).Return(entryWith(variantID, fromBranch, 6), nil)
		stockRepo.On("FindByVariantAndBranch", mock.Anything, variantID, toBranch).Return(entryWith(variantID, toBranch, 4), nil)

		resp, err := svc.Transfer(context.Background(), actorID, TransferRequest{
			VariantID:    variantID,
			FromBranchID: fromBranch,
			ToBranchID:   toBranch,
			Quantity:     4,
			Reason:       "reabastecimiento Sucursal Sur",
		})

		require.NoError(t, err)
		assert.Equal(t, 6, resp.From.Quantity)
		assert.Equal(t, 4, resp.To.Quantity)

		// both movement rows share the transfer reference
		require.Len(t, refs, 2)
		assert.Equal(t, refs[0], refs[1])
		assert.Equal(t, resp.TransferID, refs[0])
	})

	t.Run("same branch on both sides is invalid", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		_, err := svc.Transfer(context.Background(), actorID, TransferRequest{
			VariantID:    variantID,
			FromBranchID: fromBranch,
			ToBranchID:   fromBranch,
			Quantity:     1,
		})

		assert.Equal(t, shared.ErrInvalidTransfer, err)
		stockRepo.AssertNotCalled(t, "Adjust")
	})

	t.Run("non-positive quantity is invalid", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		_, err := svc.Transfer(context.Background(), actorID, TransferRequest{
			VariantID:    variantID,
			FromBranchID: fromBranch,
			ToBranchID:   toBranch,
			Quantity:     0,
		})

		assert.Equal(t, shared.ErrInvalidTransfer, err)
	})

	t.Run("insufficient source stock writes nothing", func(t *testing.T) {
		stockRepo := new(MockStockRepository)
		movementRepo := new(MockMovementRepository)
		svc := newTestService(stockRepo, movementRepo)

		stockRepo.On("Adjust", mock.Anything, variantID, fromBranch, -10).Return(shared.ErrInsufficientStock)

		_, err := svc.Transfer(context.Background(), actorID, TransferRequest{
			VariantID:    variantID,
			FromBranchID: fromBranch,
			ToBranchID:   toBranch,
			Quantity:     10,
		})

		assert.Equal(t, shared.ErrInsufficientStock, err)
		stockRepo.AssertNotCalled(t, "GetOrCreate")
		movementRepo.AssertNotCalled(t, "Append")
	})
}

func TestStockService_ListLowStock(t *testing.T) {
	branchID := uuid.New()
	stockRepo := new(MockStockRepository)
	movementRepo := new(MockMovementRepository)
	svc := newTestService(stockRepo, movementRepo)

	entries := []inventory.StockEntry{
		*entryWith(uuid.New(), branchID, 2),
		*entryWith(uuid.New(), branchID, 5),
	}
	stockRepo.On("FindLowStock", mock.Anything, branchID, 5).Return(entries, nil)

	resp, err := svc.ListLowStock(context.Background(), branchID)

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.True(t, resp[0].Low)
	assert.True(t, resp[1].Low)
}

func TestStockService_MovementsByBranch(t *testing.T) {
	branchID := uuid.New()
	stockRepo := new(MockStockRepository)
	movementRepo := new(MockMovementRepository)
	svc := newTestService(stockRepo, movementRepo)

	movement, err := inventory.NewStockMovement(uuid.New(), branchID, inventory.MovementSale, -2, "Venta")
	require.NoError(t, err)

	movementRepo.On("FindByBranch", mock.Anything, branchID, mock.Anything).Return([]inventory.StockMovement{*movement}, nil)

	resp, err := svc.MovementsByBranch(context.Background(), branchID, ListFilter{})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "VENTA", resp[0].Type)
	assert.Equal(t, -2, resp[0].Quantity)
}

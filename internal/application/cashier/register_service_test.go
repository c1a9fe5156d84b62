package cashier

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func newTestRegisterService(registerRepo *MockRegisterRepository, movementRepo *MockCashMovementRepository) *RegisterService {
	scope := NewNoOpTransactionScope(registerRepo, movementRepo)
	return NewRegisterService(scope, registerRepo, movementRepo, zap.NewNop())
}

func openTestRegister(t *testing.T, branchID, userID uuid.UUID, openingAmount float64) *cashier.CashRegister {
	t.Helper()
	register, err := cashier.OpenRegister(branchID, userID, valueobject.NewMoneyBOBFromFloat(openingAmount), "turno mañana")
	require.NoError(t, err)
	return register
}

func TestRegisterService_Open(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()

	t.Run("opens and posts the opening movement atomically", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(nil, shared.ErrNotFound)
		registerRepo.On("Save", mock.Anything, mock.MatchedBy(func(r *cashier.CashRegister) bool {
			return r.BranchID == branchID && r.Status == cashier.RegisterOpen
		})).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *cashier.CashMovement) bool {
			return m.Type == cashier.MovementIncome &&
				m.PaymentMethod == cashier.PaymentCash &&
				m.Amount.Amount().Equal(decimal.NewFromInt(200)) &&
				m.Concept == "Apertura de caja"
		})).Return(nil)

		resp, err := svc.Open(context.Background(), userID, branchID, OpenRegisterRequest{
			OpeningAmount: decimal.NewFromInt(200),
			Notes:         "turno mañana",
		})

		require.NoError(t, err)
		assert.Equal(t, "ABIERTA", resp.Status)
		assert.True(t, resp.OpeningAmount.Equal(decimal.NewFromInt(200)))
		movementRepo.AssertExpectations(t)
	})

	t.Run("second open on the same branch is rejected", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		existing := openTestRegister(t, branchID, userID, 200)
		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(existing, nil)

		_, err := svc.Open(context.Background(), userID, branchID, OpenRegisterRequest{
			OpeningAmount: decimal.NewFromInt(100),
		})

		assert.Equal(t, shared.ErrRegisterAlreadyOpen, err)
		registerRepo.AssertNotCalled(t, "Save")
	})

	t.Run("negative opening amount is rejected", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		_, err := svc.Open(context.Background(), userID, branchID, OpenRegisterRequest{
			OpeningAmount: decimal.NewFromInt(-50),
		})

		require.Error(t, err)
		registerRepo.AssertNotCalled(t, "FindOpenByBranch")
	})
}

func TestRegisterService_PostMovement(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()

	t.Run("posts a manual expense", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(register, nil)
		movementRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *cashier.CashMovement) bool {
			return m.Type == cashier.MovementExpense &&
				m.RegisterID == register.ID &&
				m.CreatedBy != nil && *m.CreatedBy == userID
		})).Return(nil)

		resp, err := svc.PostMovement(context.Background(), userID, branchID, MovementRequest{
			Type:          "EGRESO",
			PaymentMethod: "EFECTIVO",
			Amount:        decimal.NewFromInt(30),
			Concept:       "Compra de bolsas",
		})

		require.NoError(t, err)
		assert.Equal(t, "EGRESO", resp.Type)
		assert.Equal(t, "Compra de bolsas", resp.Concept)
	})

	t.Run("no open register", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(nil, shared.ErrNotFound)

		_, err := svc.PostMovement(context.Background(), userID, branchID, MovementRequest{
			Type:          "INGRESO",
			PaymentMethod: "EFECTIVO",
			Amount:        decimal.NewFromInt(10),
			Concept:       "Ajuste",
		})

		assert.Equal(t, shared.ErrRegisterNotOpen, err)
		movementRepo.AssertNotCalled(t, "Append")
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(register, nil)

		_, err := svc.PostMovement(context.Background(), userID, branchID, MovementRequest{
			Type:          "INGRESO",
			PaymentMethod: "QR",
			Amount:        decimal.Zero,
			Concept:       "Ajuste",
		})

		require.Error(t, err)
		movementRepo.AssertNotCalled(t, "Append")
	})
}

func TestRegisterService_Close(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()

	income := map[cashier.PaymentMethod]valueobject.Money{
		cashier.PaymentCash: valueobject.NewMoneyBOBFromFloat(550), // 200 float + 350 sales
		cashier.PaymentQR:   valueobject.NewMoneyBOBFromFloat(120),
	}

	t.Run("reconciles against the session sums", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(register, nil)
		movementRepo.On("SumIncomeByMethod", mock.Anything, register.ID).Return(income, nil)
		registerRepo.On("SaveWithLock", mock.Anything, register).Return(nil)

		resp, err := svc.Close(context.Background(), userID, branchID, CloseRegisterRequest{
			CountedCash: decimal.NewFromInt(540),
			Notes:       "faltan 10",
		})

		require.NoError(t, err)
		assert.Equal(t, "CERRADA", resp.Status)
		assert.True(t, resp.ExpectedCash.Equal(decimal.NewFromInt(550)))
		assert.True(t, resp.ExpectedQR.Equal(decimal.NewFromInt(120)))
		assert.True(t, resp.ExpectedCard.IsZero())
		assert.True(t, resp.ExpectedTotal.Equal(decimal.NewFromInt(670)))
		// shortfall is recorded, not rejected
		assert.True(t, resp.CashDifference.Equal(decimal.NewFromInt(-10)))
	})

	t.Run("no open register", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(nil, shared.ErrNotFound)

		_, err := svc.Close(context.Background(), userID, branchID, CloseRegisterRequest{
			CountedCash: decimal.NewFromInt(100),
		})

		assert.Equal(t, shared.ErrNoOpenRegister, err)
	})

	t.Run("negative counted cash is rejected", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		registerRepo.On("FindOpenByBranch", mock.Anything, branchID).Return(register, nil)
		movementRepo.On("SumIncomeByMethod", mock.Anything, register.ID).Return(income, nil)

		_, err := svc.Close(context.Background(), userID, branchID, CloseRegisterRequest{
			CountedCash: decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		registerRepo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestRegisterService_Summary(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()

	t.Run("short ledger is embedded whole", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		opening := register.OpeningMovement()

		registerRepo.On("FindByID", mock.Anything, register.ID).Return(register, nil)
		movementRepo.On("SumIncomeByMethod", mock.Anything, register.ID).Return(map[cashier.PaymentMethod]valueobject.Money{
			cashier.PaymentCash: valueobject.NewMoneyBOBFromFloat(200),
		}, nil)
		movementRepo.On("CountSales", mock.Anything, register.ID).Return(int64(0), nil)
		movementRepo.On("FindByRegister", mock.Anything, register.ID, mock.Anything).Return([]cashier.CashMovement{*opening}, nil)

		resp, err := svc.Summary(context.Background(), register.ID)

		require.NoError(t, err)
		assert.True(t, resp.IncomeCash.Equal(decimal.NewFromInt(200)))
		assert.True(t, resp.IncomeTotal.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, int64(0), resp.SalesCount)
		require.Len(t, resp.Movements, 1)
		assert.Equal(t, "Apertura de caja", resp.Movements[0].Concept)
		assert.False(t, resp.LedgerTruncated)
	})

	t.Run("long ledger is cut at the cap and flagged", func(t *testing.T) {
		registerRepo := new(MockRegisterRepository)
		movementRepo := new(MockCashMovementRepository)
		svc := newTestRegisterService(registerRepo, movementRepo)

		register := openTestRegister(t, branchID, userID, 200)
		opening := register.OpeningMovement()

		ledger := make([]cashier.CashMovement, summaryLedgerCap+1)
		for i := range ledger {
			ledger[i] = *opening
		}

		registerRepo.On("FindByID", mock.Anything, register.ID).Return(register, nil)
		movementRepo.On("SumIncomeByMethod", mock.Anything, register.ID).Return(map[cashier.PaymentMethod]valueobject.Money{
			cashier.PaymentCash: valueobject.NewMoneyBOBFromFloat(200),
		}, nil)
		movementRepo.On("CountSales", mock.Anything, register.ID).Return(int64(0), nil)
		movementRepo.On("FindByRegister", mock.Anything, register.ID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == summaryLedgerCap+1
		})).Return(ledger, nil)

		resp, err := svc.Summary(context.Background(), register.ID)

		require.NoError(t, err)
		assert.Len(t, resp.Movements, summaryLedgerCap)
		assert.Equal(t, summaryLedgerCap, resp.MovementCount)
		assert.True(t, resp.LedgerTruncated)
	})
}

func TestRegisterService_History(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()

	registerRepo := new(MockRegisterRepository)
	movementRepo := new(MockCashMovementRepository)
	svc := newTestRegisterService(registerRepo, movementRepo)

	register := openTestRegister(t, branchID, userID, 200)
	registerRepo.On("FindHistory", mock.Anything, branchID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "CERRADA"
	})).Return([]cashier.CashRegister{*register}, nil)
	registerRepo.On("Count", mock.Anything, branchID, mock.Anything).Return(int64(1), nil)

	resp, err := svc.History(context.Background(), branchID, HistoryFilter{Status: "CERRADA"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
}

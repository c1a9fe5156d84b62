package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func newTestReportService(repo *MockSaleRepository) *Service {
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestService_SalesSummary(t *testing.T) {
	branchID := uuid.New()

	t.Run("explicit period with inclusive end date", func(t *testing.T) {
		repo := new(MockSaleRepository)
		svc := newTestReportService(repo)

		from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
		expectedTo := to.AddDate(0, 0, 1)

		repo.On("SalesStats", mock.Anything, &branchID, from, expectedTo).Return(sales.SalesStats{
			Count:    12,
			Revenue:  "4320.00",
			Discount: "150.00",
		}, nil)

		resp, err := svc.SalesSummary(context.Background(), PeriodFilter{
			BranchID: &branchID,
			From:     &from,
			To:       &to,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.Count)
		assert.Equal(t, "4320.00", resp.Revenue)
		assert.Equal(t, expectedTo, resp.To)
	})

	t.Run("omitted period defaults to the last 30 days", func(t *testing.T) {
		repo := new(MockSaleRepository)
		svc := newTestReportService(repo)

		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		repo.On("SalesStats", mock.Anything, (*uuid.UUID)(nil), now.AddDate(0, 0, -30), now).Return(sales.SalesStats{Count: 3}, nil)

		resp, err := svc.SalesSummary(context.Background(), PeriodFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Count)
		assert.Nil(t, resp.BranchID)
	})
}

func TestService_DailySummary(t *testing.T) {
	repo := new(MockSaleRepository)
	svc := newTestReportService(repo)

	day := time.Date(2025, 6, 15, 16, 45, 0, 0, time.UTC)
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	repo.On("SalesStats", mock.Anything, (*uuid.UUID)(nil), start, start.AddDate(0, 0, 1)).Return(sales.SalesStats{
		Count:   5,
		Revenue: "900.00",
	}, nil)

	resp, err := svc.DailySummary(context.Background(), nil, day)

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Count)
	assert.Equal(t, start, resp.From)
}

func TestService_TopProducts(t *testing.T) {
	repo := new(MockSaleRepository)
	svc := newTestReportService(repo)

	ranks := []sales.ProductRank{
		{VariantID: uuid.New(), ProductName: "Hoodie Oversize", Size: "M", Quantity: 40, Revenue: "7200.00"},
		{VariantID: uuid.New(), ProductName: "Remera Básica", Size: "L", Quantity: 25, Revenue: "1500.00"},
	}
	// default limit applies when none is given
	repo.On("TopProducts", mock.Anything, (*uuid.UUID)(nil), mock.Anything, mock.Anything, 10).Return(ranks, nil)

	resp, err := svc.TopProducts(context.Background(), TopProductsFilter{})

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "Hoodie Oversize", resp[0].ProductName)
	assert.Equal(t, int64(40), resp[0].Quantity)
}

func TestService_PaymentBreakdown(t *testing.T) {
	repo := new(MockSaleRepository)
	svc := newTestReportService(repo)

	repo.On("PaymentBreakdown", mock.Anything, (*uuid.UUID)(nil), mock.Anything, mock.Anything).Return(map[sales.PaymentType]sales.SalesStats{
		sales.PaymentQR:   {Count: 4, Revenue: "480.00"},
		sales.PaymentCash: {Count: 10, Revenue: "1800.00"},
	}, nil)

	resp, err := svc.PaymentBreakdown(context.Background(), PeriodFilter{})

	require.NoError(t, err)
	require.Len(t, resp.Methods, 2)
	// sorted by payment type for a stable response
	assert.Equal(t, "EFECTIVO", resp.Methods[0].PaymentType)
	assert.Equal(t, "QR", resp.Methods[1].PaymentType)
}

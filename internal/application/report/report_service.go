package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"go.uber.org/zap"
)

const (
	defaultPeriodDays  = 30
	defaultTopProducts = 10
	maxTopProducts     = 100
)

// Service answers the reporting questions of the POS side: how much was sold,
// what sold best and how customers paid. All numbers are aggregated in SQL by
// the sale repository; this layer only resolves periods and shapes responses.
type Service struct {
	saleRepo sales.SaleRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new report Service
func NewService(saleRepo sales.SaleRepository, logger *zap.Logger) *Service {
	return &Service{
		saleRepo: saleRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// SalesSummary aggregates count, revenue and discount over a period.
// An omitted range defaults to the last 30 days.
func (s *Service) SalesSummary(ctx context.Context, filter PeriodFilter) (*SalesSummaryResponse, error) {
	from, to := s.resolvePeriod(filter)

	stats, err := s.saleRepo.SalesStats(ctx, filter.BranchID, from, to)
	if err != nil {
		return nil, err
	}

	return &SalesSummaryResponse{
		From:     from,
		To:       to,
		BranchID: filter.BranchID,
		Count:    stats.Count,
		Revenue:  stats.Revenue,
		Discount: stats.Discount,
	}, nil
}

// DailySummary aggregates the sales of one calendar day
func (s *Service) DailySummary(ctx context.Context, branchID *uuid.UUID, day time.Time) (*SalesSummaryResponse, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	stats, err := s.saleRepo.SalesStats(ctx, branchID, from, to)
	if err != nil {
		return nil, err
	}

	return &SalesSummaryResponse{
		From:     from,
		To:       to,
		BranchID: branchID,
		Count:    stats.Count,
		Revenue:  stats.Revenue,
		Discount: stats.Discount,
	}, nil
}

// TopProducts ranks sold variants by quantity over a period
func (s *Service) TopProducts(ctx context.Context, filter TopProductsFilter) ([]ProductRankResponse, error) {
	from, to := s.resolvePeriod(filter.PeriodFilter)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}

	ranks, err := s.saleRepo.TopProducts(ctx, filter.BranchID, from, to, limit)
	if err != nil {
		return nil, err
	}
	return toProductRankResponses(ranks), nil
}

// PaymentBreakdown sums revenue per payment method over a period
func (s *Service) PaymentBreakdown(ctx context.Context, filter PeriodFilter) (*PaymentBreakdownResponse, error) {
	from, to := s.resolvePeriod(filter)

	breakdown, err := s.saleRepo.PaymentBreakdown(ctx, filter.BranchID, from, to)
	if err != nil {
		return nil, err
	}

	methods := make([]PaymentBreakdownEntry, 0, len(breakdown))
	for paymentType, stats := range breakdown {
		methods = append(methods, PaymentBreakdownEntry{
			PaymentType: string(paymentType),
			Count:       stats.Count,
			Revenue:     stats.Revenue,
		})
	}
	// map iteration order is random; keep the response stable
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].PaymentType < methods[j].PaymentType
	})

	return &PaymentBreakdownResponse{
		From:    from,
		To:      to,
		Methods: methods,
	}, nil
}

func (s *Service) resolvePeriod(filter PeriodFilter) (time.Time, time.Time) {
	to := s.now()
	if filter.To != nil {
		// make the end date inclusive
		to = filter.To.AddDate(0, 0, 1)
	}

	from := to.AddDate(0, 0, -defaultPeriodDays)
	if filter.From != nil {
		from = *filter.From
	}
	return from, to
}

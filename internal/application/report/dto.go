package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
)

// PeriodFilter bounds a report to a date range and optionally one branch.
// Admin callers may omit the branch to aggregate across the whole company.
type PeriodFilter struct {
	BranchID *uuid.UUID `form:"branchId"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// TopProductsFilter extends PeriodFilter with a result cap
type TopProductsFilter struct {
	PeriodFilter
	Limit int `form:"limit"`
}

// SalesSummaryResponse aggregates sales over a period
type SalesSummaryResponse struct {
	From     time.Time  `json:"from"`
	To       time.Time  `json:"to"`
	BranchID *uuid.UUID `json:"branchId,omitempty"`
	Count    int64      `json:"count"`
	Revenue  string     `json:"revenue"`
	Discount string     `json:"discount"`
}

// ProductRankResponse is one row of a top-products report
type ProductRankResponse struct {
	VariantID   uuid.UUID `json:"variantId"`
	ProductName string    `json:"productName"`
	Size        string    `json:"size,omitempty"`
	Quantity    int64     `json:"quantity"`
	Revenue     string    `json:"revenue"`
}

// PaymentBreakdownEntry is the aggregate of one payment method
type PaymentBreakdownEntry struct {
	PaymentType string `json:"paymentType"`
	Count       int64  `json:"count"`
	Revenue     string `json:"revenue"`
}

// PaymentBreakdownResponse sums revenue per payment method over a period.
// MIXTO sales contribute their sub-amounts to each method they touched.
type PaymentBreakdownResponse struct {
	From    time.Time               `json:"from"`
	To      time.Time               `json:"to"`
	Methods []PaymentBreakdownEntry `json:"methods"`
}

func toProductRankResponses(ranks []sales.ProductRank) []ProductRankResponse {
	responses := make([]ProductRankResponse, 0, len(ranks))
	for _, rank := range ranks {
		responses = append(responses, ProductRankResponse{
			VariantID:   rank.VariantID,
			ProductName: rank.ProductName,
			Size:        rank.Size,
			Quantity:    rank.Quantity,
			Revenue:     rank.Revenue,
		})
	}
	return responses
}

package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// OrderRepository defines the interface for storefront order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists a customer's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll lists orders matching the filter ("status" key supported)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SaleRepository defines the interface for POS sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByBranch lists sales of a branch, newest first. The filter
	// supports "from", "to" and "paymentType" keys.
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindByRegister lists the sales of a register session
	FindByRegister(ctx context.Context, registerID uuid.UUID) ([]Sale, error)

	// Save inserts a sale with its items. Sales are never updated.
	Save(ctx context.Context, sale *Sale) error

	// Count counts sales of a branch matching the filter
	Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error)

	// SalesStats aggregates count, revenue and discount over a period
	SalesStats(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (SalesStats, error)

	// TopProducts ranks sold variants by quantity over a period
	TopProducts(ctx context.Context, branchID *uuid.UUID, from, to time.Time, limit int) ([]ProductRank, error)

	// PaymentBreakdown sums revenue per payment type over a period.
	// MIXTO sales contribute their sub-amounts to each method.
	PaymentBreakdown(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (map[PaymentType]SalesStats, error)
}

// SalesStats is an aggregate over a set of sales
type SalesStats struct {
	Count    int64  `json:"count"`
	Revenue  string `json:"revenue"`
	Discount string `json:"discount"`
}

// ProductRank is one row of a top-products report
type ProductRank struct {
	VariantID   uuid.UUID `json:"variantId"`
	ProductName string    `json:"productName"`
	Size        string    `json:"size"`
	Quantity    int64     `json:"quantity"`
	Revenue     string    `json:"revenue"`
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByBranch lists sales of a branch, newest first
func (r *GormSaleRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Sale{}).
			Preload("Items").
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByRegister lists the sales of a register session
func (r *GormSaleRepository) FindByRegister(ctx context.Context, registerID uuid.UUID) ([]sales.Sale, error) {
	var result []sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("register_id = ?", registerID).
		Order("sale_date ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save inserts a sale with its items. Sales are never updated.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(sale).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
			if err := tx.Create(&sale.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts sales of a branch matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&sales.Sale{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SalesStats aggregates count, revenue and discount over a period
func (r *GormSaleRepository) SalesStats(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (sales.SalesStats, error) {
	var row struct {
		Count    int64
		Revenue  decimal.Decimal
		Discount decimal.Decimal
	}

	query := r.periodQuery(ctx, branchID, from, to).
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as revenue, COALESCE(SUM(discount_amount), 0) as discount")
	if err := query.Scan(&row).Error; err != nil {
		return sales.SalesStats{}, err
	}

	return sales.SalesStats{
		Count:    row.Count,
		Revenue:  row.Revenue.StringFixed(2),
		Discount: row.Discount.StringFixed(2),
	}, nil
}

// TopProducts ranks sold variants by quantity over a period
func (r *GormSaleRepository) TopProducts(ctx context.Context, branchID *uuid.UUID, from, to time.Time, limit int) ([]sales.ProductRank, error) {
	var rows []struct {
		VariantID   uuid.UUID
		ProductName string
		Size        string
		Quantity    int64
		Revenue     decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.variant_id, sale_items.product_name, sale_items.size, "+
			"SUM(sale_items.quantity) as quantity, COALESCE(SUM(sale_items.subtotal), 0) as revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date < ?", from, to)
	if branchID != nil {
		query = query.Where("sales.branch_id = ?", *branchID)
	}

	if err := query.
		Group("sale_items.variant_id, sale_items.product_name, sale_items.size").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	ranks := make([]sales.ProductRank, 0, len(rows))
	for _, row := range rows {
		ranks = append(ranks, sales.ProductRank{
			VariantID:   row.VariantID,
			ProductName: row.ProductName,
			Size:        row.Size,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.StringFixed(2),
		})
	}
	return ranks, nil
}

// PaymentBreakdown sums revenue per payment type over a period. MIXTO sales
// contribute their sub-amounts to each method they touched.
func (r *GormSaleRepository) PaymentBreakdown(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (map[sales.PaymentType]sales.SalesStats, error) {
	breakdown := make(map[sales.PaymentType]sales.SalesStats)

	var rows []struct {
		PaymentType string
		Count       int64
		Revenue     decimal.Decimal
		Discount    decimal.Decimal
	}
	query := r.periodQuery(ctx, branchID, from, to).
		Select("payment_type, COUNT(*) as count, COALESCE(SUM(total), 0) as revenue, COALESCE(SUM(discount_amount), 0) as discount").
		Where("payment_type <> ?", sales.PaymentMixed).
		Group("payment_type")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[sales.PaymentType]struct {
		count    int64
		revenue  decimal.Decimal
		discount decimal.Decimal
	})
	for _, row := range rows {
		totals[sales.PaymentType(row.PaymentType)] = struct {
			count    int64
			revenue  decimal.Decimal
			discount decimal.Decimal
		}{row.Count, row.Revenue, row.Discount}
	}

	// MIXTO sales split into their jsonb sub-amounts
	var mixed struct {
		CashCount int64
		Cash      decimal.Decimal
		QRCount   int64
		QR        decimal.Decimal
		CardCount int64
		Card      decimal.Decimal
	}
	mixedQuery := r.periodQuery(ctx, branchID, from, to).
		Select("COUNT(*) FILTER (WHERE (payment_details->>'efectivo')::numeric > 0) as cash_count, " +
			"COALESCE(SUM((payment_details->>'efectivo')::numeric), 0) as cash, " +
			"COUNT(*) FILTER (WHERE (payment_details->>'qr')::numeric > 0) as qr_count, " +
			"COALESCE(SUM((payment_details->>'qr')::numeric), 0) as qr, " +
			"COUNT(*) FILTER (WHERE (payment_details->>'tarjeta')::numeric > 0) as card_count, " +
			"COALESCE(SUM((payment_details->>'tarjeta')::numeric), 0) as card").
		Where("payment_type = ?", sales.PaymentMixed)
	if err := mixedQuery.Scan(&mixed).Error; err != nil {
		return nil, err
	}

	addMixed := func(method sales.PaymentType, count int64, amount decimal.Decimal) {
		if count == 0 && amount.IsZero() {
			return
		}
		entry := totals[method]
		entry.count += count
		entry.revenue = entry.revenue.Add(amount)
		totals[method] = entry
	}
	addMixed(sales.PaymentCash, mixed.CashCount, mixed.Cash)
	addMixed(sales.PaymentQR, mixed.QRCount, mixed.QR)
	addMixed(sales.PaymentCard, mixed.CardCount, mixed.Card)

	for method, entry := range totals {
		breakdown[method] = sales.SalesStats{
			Count:    entry.count,
			Revenue:  entry.revenue.StringFixed(2),
			Discount: entry.discount.StringFixed(2),
		}
	}
	return breakdown, nil
}

func (r *GormSaleRepository) periodQuery(ctx context.Context, branchID *uuid.UUID, from, to time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", from, to)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}
	return query
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "paymentType":
			query = query.Where("payment_type = ?", value)
		case "from":
			query = query.Where("sale_date >= ?", value)
		case "to":
			query = query.Where("sale_date < ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByUser lists a customer's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Order{}).
			Preload("Items").
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Order{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentIDs[i] = item.ID
		}

		query := tx.Where("order_id = ?", order.ID)
		if len(currentIDs) > 0 {
			query = query.Where("id NOT IN ?", currentIDs)
		}
		if err := query.Delete(&sales.OrderItem{}).Error; err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	currentVersion := order.Version
	order.Version++
	order.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&sales.Order{}).
		Where("id = ? AND version = ?", order.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":     order.Status,
			"total":      order.Total,
			"version":    order.Version,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&sales.Order{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ sales.OrderRepository = (*GormOrderRepository)(nil)

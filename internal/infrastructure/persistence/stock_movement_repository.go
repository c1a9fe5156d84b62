package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.MovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes an audit row. Movements are never updated or deleted.
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByVariant lists movements of a variant, newest first
func (r *GormStockMovementRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
			Where("variant_id = ?", variantID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByBranch lists movements at a branch, newest first
func (r *GormStockMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockMovementSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormStockMovementRepository)(nil)

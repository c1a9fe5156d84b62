package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByVariantAndBranch finds the entry for a (variant, branch) pair
func (r *GormStockRepository) FindByVariantAndBranch(ctx context.Context, variantID, branchID uuid.UUID) (*inventory.StockEntry, error) {
	var entry inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("variant_id = ? AND branch_id = ?", variantID, branchID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByBranch finds all entries at a branch
func (r *GormStockRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockEntry{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByVariant finds the entries of a variant across branches
func (r *GormStockRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("branch_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindLowStock finds entries at or below the threshold for a branch
func (r *GormStockRepository) FindLowStock(ctx context.Context, branchID uuid.UUID, threshold int) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND quantity <= ?", branchID, threshold).
		Order("quantity ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetOrCreate returns the entry for the pair, creating a zero-quantity row
// when none exists
func (r *GormStockRepository) GetOrCreate(ctx context.Context, variantID, branchID uuid.UUID) (*inventory.StockEntry, error) {
	entry, err := r.FindByVariantAndBranch(ctx, variantID, branchID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	entry = inventory.NewStockEntry(variantID, branchID)

	// ON CONFLICT handles concurrent initialization of the same pair
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "variant_id"}, {Name: "branch_id"}},
			DoNothing: true,
		}).
		Create(entry).Error; err != nil {
		return nil, err
	}

	return r.FindByVariantAndBranch(ctx, variantID, branchID)
}

// Adjust applies a signed delta as a single conditional UPDATE. The quantity
// guard in the WHERE clause keeps concurrent writers from going below zero.
func (r *GormStockRepository) Adjust(ctx context.Context, variantID, branchID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).Model(&inventory.StockEntry{}).
		Where("variant_id = ? AND branch_id = ? AND quantity + ? >= 0", variantID, branchID, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&inventory.StockEntry{}).
			Where("variant_id = ? AND branch_id = ?", variantID, branchID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// Save creates or updates an entry
func (r *GormStockRepository) Save(ctx context.Context, entry *inventory.StockEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *GormStockRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockEntrySortFields, "updated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/identity"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBranchRepository implements identity.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Branch, error) {
	var branch identity.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindAll lists branches matching the filter
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Branch, error) {
	var branches []identity.Branch
	query := r.db.WithContext(ctx).Model(&identity.Branch{})

	for key, value := range filter.Filters {
		if key == "active" {
			query = query.Where("active = ?", value)
		}
	}

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BranchSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "name" && filter.OrderDir == "" {
		orderDir = "ASC"
	}

	if err := query.Order(orderBy + " " + orderDir).Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// FindActive lists only active branches
func (r *GormBranchRepository) FindActive(ctx context.Context) ([]identity.Branch, error) {
	var branches []identity.Branch
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *identity.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// Delete removes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Branch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBranchRepository implements BranchRepository
var _ identity.BranchRepository = (*GormBranchRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDropRepository implements catalog.DropRepository using GORM
type GormDropRepository struct {
	db *gorm.DB
}

// NewGormDropRepository creates a new GormDropRepository
func NewGormDropRepository(db *gorm.DB) *GormDropRepository {
	return &GormDropRepository{db: db}
}

// FindByID finds a drop by its ID, with its product links preloaded
func (r *GormDropRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Drop, error) {
	var drop catalog.Drop
	if err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&drop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drop, nil
}

// FindAll finds all drops matching the filter
func (r *GormDropRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Drop, error) {
	var drops []catalog.Drop
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Drop{}).
			Preload("Products", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order ASC")
			}),
		filter,
	)

	if err := query.Find(&drops).Error; err != nil {
		return nil, err
	}
	return drops, nil
}

// FindLive finds drops that are ACTIVO and already launched
func (r *GormDropRepository) FindLive(ctx context.Context) ([]catalog.Drop, error) {
	var drops []catalog.Drop
	now := time.Now()
	if err := r.liveQuery(ctx, now).
		Order("launch_date DESC").
		Find(&drops).Error; err != nil {
		return nil, err
	}
	return drops, nil
}

// FindFeatured finds the live drops flagged as featured
func (r *GormDropRepository) FindFeatured(ctx context.Context) ([]catalog.Drop, error) {
	var drops []catalog.Drop
	now := time.Now()
	if err := r.liveQuery(ctx, now).
		Where("featured = ?", true).
		Order("launch_date DESC").
		Find(&drops).Error; err != nil {
		return nil, err
	}
	return drops, nil
}

func (r *GormDropRepository) liveQuery(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&catalog.Drop{}).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("status = ?", catalog.DropStatusActive).
		Where("launch_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now)
}

// Save creates or updates a drop and replaces its product links
func (r *GormDropRepository) Save(ctx context.Context, drop *catalog.Drop) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Save(drop).Error; err != nil {
			return err
		}

		if err := tx.Where("drop_id = ?", drop.ID).Delete(&catalog.DropProduct{}).Error; err != nil {
			return err
		}
		for i := range drop.Products {
			drop.Products[i].DropID = drop.ID
			if err := tx.Create(&drop.Products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a drop
func (r *GormDropRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drop_id = ?", id).Delete(&catalog.DropProduct{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Drop{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts drops matching the filter
func (r *GormDropRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.Drop{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDropRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DropSortFields, "launch_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormDropRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "featured":
			query = query.Where("featured = ?", value)
		}
	}
	return query
}

// Ensure GormDropRepository implements DropRepository
var _ catalog.DropRepository = (*GormDropRepository)(nil)

package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
)

// DropStatus represents the lifecycle state of a drop
type DropStatus string

const (
	DropStatusActive   DropStatus = "ACTIVO"
	DropStatusInactive DropStatus = "INACTIVO"
	DropStatusFinished DropStatus = "FINALIZADO"
)

// Drop is a themed product launch. A drop is shown on the storefront once it
// is ACTIVO and its launch date has passed.
type Drop struct {
	shared.BaseAggregateRoot
	Name        string        `gorm:"size:200;not null"`
	Description string        `gorm:"type:text"`
	LaunchDate  time.Time     `gorm:"not null;index"`
	EndDate     *time.Time    `gorm:""`
	Status      DropStatus    `gorm:"size:20;not null;default:'INACTIVO';index"`
	Featured    bool          `gorm:"not null;default:false"`
	ImageURL    string        `gorm:"size:500"`
	BannerURL   string        `gorm:"size:500"`
	Products    []DropProduct `gorm:"foreignKey:DropID;constraint:OnDelete:CASCADE"`
}

// DropProduct links a product into a drop with an explicit sort order
type DropProduct struct {
	shared.BaseEntity
	DropID    uuid.UUID `gorm:"type:uuid;not null;index:idx_drop_product,unique"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_drop_product,unique"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Drop) TableName() string {
	return "drops"
}

// TableName returns the table name for GORM
func (DropProduct) TableName() string {
	return "drop_products"
}

// NewDrop creates a new drop in INACTIVO state
func NewDrop(name, description string, launchDate time.Time, endDate *time.Time) (*Drop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Drop name is required")
	}
	if endDate != nil && !endDate.After(launchDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Drop end date must be after the launch date")
	}

	return &Drop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		LaunchDate:        launchDate,
		EndDate:           endDate,
		Status:            DropStatusInactive,
	}, nil
}

// UpdateDetails changes the drop's name, description and schedule
func (d *Drop) UpdateDetails(name, description string, launchDate time.Time, endDate *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Drop name is required")
	}
	if endDate != nil && !endDate.After(launchDate) {
		return shared.NewDomainError("INVALID_INPUT", "Drop end date must be after the launch date")
	}

	d.Name = name
	d.Description = description
	d.LaunchDate = launchDate
	d.EndDate = endDate
	d.Touch()
	d.IncrementVersion()
	return nil
}

// Activate makes the drop eligible for the storefront
func (d *Drop) Activate() error {
	if d.Status == DropStatusFinished {
		return shared.NewDomainError("INVALID_STATE", "A finished drop cannot be reactivated")
	}
	d.Status = DropStatusActive
	return nil
}

// Deactivate hides the drop without finishing it
func (d *Drop) Deactivate() error {
	if d.Status == DropStatusFinished {
		return shared.NewDomainError("INVALID_STATE", "A finished drop cannot be deactivated")
	}
	d.Status = DropStatusInactive
	return nil
}

// Finish permanently closes the drop
func (d *Drop) Finish() {
	d.Status = DropStatusFinished
	if d.EndDate == nil {
		now := time.Now()
		d.EndDate = &now
	}
}

// SetFeatured marks the drop as featured on the storefront home
func (d *Drop) SetFeatured(featured bool) {
	d.Featured = featured
}

// IsLive reports whether the drop should be shown at the given time
func (d *Drop) IsLive(now time.Time) bool {
	if d.Status != DropStatusActive {
		return false
	}
	if now.Before(d.LaunchDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// ReplaceProducts swaps the product lineup, preserving the given order
func (d *Drop) ReplaceProducts(productIDs []uuid.UUID) {
	products := make([]DropProduct, 0, len(productIDs))
	for i, pid := range productIDs {
		products = append(products, DropProduct{
			BaseEntity: shared.NewBaseEntity(),
			DropID:     d.ID,
			ProductID:  pid,
			SortOrder:  i,
		})
	}
	d.Products = products
}

package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// Product is the catalog aggregate root. It carries the storefront stock
// counter on the product row itself; per-branch stock for POS sales lives in
// the inventory package, keyed by variant.
type Product struct {
	shared.BaseAggregateRoot
	Name        string                `gorm:"size:200;not null"`
	Description string                `gorm:"type:text"`
	Category    string                `gorm:"size:100;index"`
	Price       valueobject.Money     `gorm:"type:decimal(12,2);not null"`
	ImageURL    string                `gorm:"size:500"`
	DropID      *uuid.UUID            `gorm:"type:uuid;index"`
	Visible     bool                  `gorm:"not null;default:true"`
	Stock       int                   `gorm:"not null;default:0"`
	Variants    []ProductVariant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductVariant is a sellable size of a product. POS stock is tracked per
// (variant, branch) in the inventory package.
type ProductVariant struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_variant_product_size,unique"`
	Size      string    `gorm:"size:20;not null;index:idx_variant_product_size,unique"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProduct creates a new product with the given sizes as variants
func NewProduct(name, description, category string, price valueobject.Money, sizes []string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product price must be greater than zero")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Category:          category,
		Price:             price,
		Visible:           true,
	}

	for _, size := range sizes {
		if err := p.AddVariant(size); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// AddVariant adds a size variant, rejecting duplicates
func (p *Product) AddVariant(size string) error {
	size = strings.TrimSpace(size)
	if size == "" {
		return shared.NewDomainError("INVALID_INPUT", "Variant size is required")
	}
	for _, v := range p.Variants {
		if strings.EqualFold(v.Size, size) {
			return shared.NewDomainError("ALREADY_EXISTS", "Variant with this size already exists")
		}
	}
	p.Variants = append(p.Variants, ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Size:       size,
	})
	return nil
}

// VariantBySize returns the variant with the given size, or nil
func (p *Product) VariantBySize(size string) *ProductVariant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].Size, size) {
			return &p.Variants[i]
		}
	}
	return nil
}

// UpdateDetails updates the mutable product fields
func (p *Product) UpdateDetails(name, description, category string, price valueobject.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Product price must be greater than zero")
	}
	p.Name = name
	p.Description = description
	p.Category = category
	p.Price = price
	return nil
}

// SetVisibility toggles whether the product is shown on the storefront
func (p *Product) SetVisibility(visible bool) {
	p.Visible = visible
}

// SetImageURL records the uploaded image location
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
}

// AssignToDrop links the product to a drop
func (p *Product) AssignToDrop(dropID uuid.UUID) {
	p.DropID = &dropID
}

// RemoveFromDrop unlinks the product from its drop
func (p *Product) RemoveFromDrop() {
	p.DropID = nil
}

// SetStorefrontStock replaces the storefront stock counter
func (p *Product) SetStorefrontStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Stock cannot be negative")
	}
	p.Stock = quantity
	return nil
}

// DecreaseStorefrontStock removes quantity from the storefront counter.
// Returns INSUFFICIENT_STOCK when the counter would go below zero.
func (p *Product) DecreaseStorefrontStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

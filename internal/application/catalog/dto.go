package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest contains the data to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Sizes       []string        `json:"sizes"`
	DropID      *uuid.UUID      `json:"dropId"`
	Visible     *bool           `json:"visible"`
}

// UpdateProductRequest contains the data to update a product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// ProductListFilter contains filters for listing products
type ProductListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
	OrderBy  string     `form:"orderBy"`
	OrderDir string     `form:"orderDir"`
	Search   string     `form:"search"`
	Category string     `form:"category"`
	DropID   *uuid.UUID `form:"dropId"`
	Visible  *bool      `form:"visible"`
}

// VariantResponse is the API representation of a product variant
type VariantResponse struct {
	ID   uuid.UUID `json:"id"`
	Size string    `json:"size"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Price       decimal.Decimal   `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	DropID      *uuid.UUID        `json:"dropId"`
	Visible     bool              `json:"visible"`
	Stock       int               `json:"stock"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{ID: v.ID, Size: v.Size})
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.Amount(),
		ImageURL:    p.ImageURL,
		DropID:      p.DropID,
		Visible:     p.Visible,
		Stock:       p.Stock,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateDropRequest contains the data to create a drop
type CreateDropRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	LaunchDate  time.Time  `json:"launchDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
	Featured    bool       `json:"featured"`
	ProductIDs  []uuid.UUID `json:"productIds"`
}

// UpdateDropRequest contains the data to update a drop
type UpdateDropRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	LaunchDate  time.Time  `json:"launchDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
	Featured    *bool      `json:"featured"`
	ProductIDs  []uuid.UUID `json:"productIds"`
}

// DropListFilter contains filters for listing drops
type DropListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir"`
	Status   string `form:"status"`
	Featured *bool  `form:"featured"`
}

// DropResponse is the API representation of a drop
type DropResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	LaunchDate  time.Time   `json:"launchDate"`
	EndDate     *time.Time  `json:"endDate"`
	Status      string      `json:"status"`
	Featured    bool        `json:"featured"`
	ImageURL    string      `json:"imageUrl"`
	BannerURL   string      `json:"bannerUrl"`
	Live        bool        `json:"live"`
	ProductIDs  []uuid.UUID `json:"productIds"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ToDropResponse converts a domain drop to its API representation
func ToDropResponse(d *catalog.Drop, now time.Time) DropResponse {
	productIDs := make([]uuid.UUID, 0, len(d.Products))
	for _, dp := range d.Products {
		productIDs = append(productIDs, dp.ProductID)
	}

	return DropResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		LaunchDate:  d.LaunchDate,
		EndDate:     d.EndDate,
		Status:      string(d.Status),
		Featured:    d.Featured,
		ImageURL:    d.ImageURL,
		BannerURL:   d.BannerURL,
		Live:        d.IsLive(now),
		ProductIDs:  productIDs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ImageUploadResponse carries a presigned upload URL for product media
type ImageUploadResponse struct {
	UploadURL  string    `json:"uploadUrl"`
	StorageKey string    `json:"storageKey"`
	PublicURL  string    `json:"publicUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

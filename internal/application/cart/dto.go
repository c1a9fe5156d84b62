package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest contains the data to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID  `json:"productId" binding:"required"`
	VariantID *uuid.UUID `json:"variantId"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest contains the new quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyDiscountRequest contains the absolute discount to apply
type ApplyDiscountRequest struct {
	Discount decimal.Decimal `json:"discount" binding:"required"`
}

// CartItemResponse is the API representation of a cart line
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	VariantID *uuid.UUID      `json:"variantId"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartResponse is the API representation of a cart
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	OwnerID   uuid.UUID          `json:"ownerId"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Discount  decimal.Decimal    `json:"discount"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ToCartResponse converts a domain cart to its API representation
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
			LineTotal: item.UnitPrice.MultiplyByInt(int64(item.Quantity)).Amount(),
		})
	}

	return CartResponse{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Items:     items,
		ItemCount: c.ItemCount(),
		Discount:  c.Discount.Amount(),
		Subtotal:  c.Subtotal.Amount(),
		Total:     c.Total.Amount(),
		UpdatedAt: c.UpdatedAt,
	}
}

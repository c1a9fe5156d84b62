package cart

import (
	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// Cart is the single shopping cart of an owner. It is created lazily on first
// access and survives checkout only as an empty shell. Totals are derived and
// recomputed on every mutation.
type Cart struct {
	shared.BaseAggregateRoot
	OwnerID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	Items    []CartItem        `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Discount valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	Total    valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
}

// CartItem is one ordered line of a cart. Lines for the same product and
// variant are merged on add.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID        `gorm:"type:uuid"`
	Size      string            `gorm:"size:20"`
	Quantity  int               `gorm:"not null"`
	UnitPrice valueobject.Money `gorm:"type:decimal(12,2);not null"`
	SortOrder int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for an owner
func NewCart(ownerID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Discount:          valueobject.ZeroBOB(),
		Subtotal:          valueobject.ZeroBOB(),
		Total:             valueobject.ZeroBOB(),
	}
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total unit count across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// findLine returns the index of the line matching product and variant, or -1
func (c *Cart) findLine(productID uuid.UUID, variantID *uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if item.VariantID == nil || *item.VariantID == *variantID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity of a product (optionally a specific variant) to the
// cart. An existing line for the same product and variant is merged. The
// merged quantity must not exceed the available stock.
func (c *Cart) AddItem(productID uuid.UUID, variantID *uuid.UUID, size string, quantity int, unitPrice valueobject.Money, available int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}

	idx := c.findLine(productID, variantID)
	merged := quantity
	if idx >= 0 {
		merged += c.Items[idx].Quantity
	}
	if merged > available {
		return shared.ErrInsufficientStock
	}

	if idx >= 0 {
		c.Items[idx].Quantity = merged
		c.Items[idx].UnitPrice = unitPrice
	} else {
		c.Items = append(c.Items, CartItem{
			BaseEntity: shared.NewBaseEntity(),
			CartID:     c.ID,
			ProductID:  productID,
			VariantID:  variantID,
			Size:       size,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			SortOrder:  len(c.Items),
		})
	}

	c.recalculate()
	return nil
}

// UpdateItemQuantity replaces the quantity of a line. A quantity of zero or
// less removes the line. The new quantity must not exceed available stock.
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity, available int) error {
	idx := -1
	for i, item := range c.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	if quantity <= 0 {
		c.removeAt(idx)
		c.recalculate()
		return nil
	}
	if quantity > available {
		return shared.ErrInsufficientStock
	}

	c.Items[idx].Quantity = quantity
	c.recalculate()
	return nil
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i, item := range c.Items {
		if item.ID == itemID {
			c.removeAt(i)
			c.recalculate()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes all lines and resets the discount
func (c *Cart) Clear() {
	c.Items = nil
	c.Discount = valueobject.ZeroBOB()
	c.recalculate()
}

// ApplyDiscount sets an absolute discount on the cart. The discount must be
// non-negative and must not exceed the current subtotal.
func (c *Cart) ApplyDiscount(discount valueobject.Money) error {
	if discount.IsNegative() {
		return shared.ErrInvalidDiscount
	}
	exceeds, err := discount.GreaterThan(c.Subtotal)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if exceeds {
		return shared.ErrInvalidDiscount
	}
	c.Discount = discount
	c.recalculate()
	return nil
}

// removeAt drops the line at index i keeping the remaining order stable
func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	for j := range c.Items {
		c.Items[j].SortOrder = j
	}
}

// recalculate rebuilds subtotal and total from the current lines.
// The discount is clamped to the subtotal so removing items can never
// produce a negative total.
func (c *Cart) recalculate() {
	subtotal := valueobject.ZeroBOB()
	for _, item := range c.Items {
		subtotal = subtotal.MustAdd(item.UnitPrice.MultiplyByInt(int64(item.Quantity)))
	}
	c.Subtotal = subtotal

	if exceeds, _ := c.Discount.GreaterThan(subtotal); exceeds {
		c.Discount = subtotal
	}
	c.Total = subtotal.MustSubtract(c.Discount)
}

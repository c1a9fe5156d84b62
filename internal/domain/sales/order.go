package sales

import (
	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the storefront order lifecycle
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions lists the allowed status changes. DELIVERED and CANCELLED
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered, OrderCancelled},
}

// Order is a storefront purchase created from a cart at checkout. Items
// snapshot the price at purchase time; after creation only the status may
// change.
type Order struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status OrderStatus       `gorm:"size:20;not null;default:'PENDING';index"`
	Total  valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Items  []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one snapshotted line of an order
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID         `gorm:"type:uuid;not null"`
	VariantID       *uuid.UUID        `gorm:"type:uuid"`
	ProductName     string            `gorm:"size:200;not null"`
	Size            string            `gorm:"size:20"`
	Quantity        int               `gorm:"not null"`
	PriceAtPurchase valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderLine is the input for one order item
type OrderLine struct {
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   valueobject.Money
}

// NewOrder creates a PENDING order from snapshotted cart lines
func NewOrder(userID uuid.UUID, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            OrderPending,
		Total:             valueobject.ZeroBOB(),
	}

	total := valueobject.ZeroBOB()
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Order line quantity must be positive")
		}
		order.Items = append(order.Items, OrderItem{
			BaseEntity:      shared.NewBaseEntity(),
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			VariantID:       line.VariantID,
			ProductName:     line.ProductName,
			Size:            line.Size,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
		})
		total = total.MustAdd(line.UnitPrice.MultiplyByInt(int64(line.Quantity)))
	}
	order.Total = total

	return order, nil
}

// CanTransitionTo reports whether the status change is allowed
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to a new status following the lifecycle
func (o *Order) TransitionTo(target OrderStatus) error {
	switch target {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown order status")
	}
	if !o.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot move from "+string(o.Status)+" to "+string(target))
	}
	o.Status = target
	return nil
}

package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// UpdateOrderStatusRequest contains the target status of an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
}

// OrderListFilter contains query parameters for listing orders
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir"`
}

// OrderItemResponse is the API representation of an order line
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"productId"`
	VariantID       *uuid.UUID      `json:"variantId,omitempty"`
	ProductName     string          `json:"productName"`
	Size            string          `json:"size,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// OrderResponse is the API representation of a storefront order
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"userId"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			ProductName:     item.ProductName,
			Size:            item.Size,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.Amount(),
		})
	}

	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total.Amount(),
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// SaleLineRequest is one item of a POS sale
type SaleLineRequest struct {
	VariantID uuid.UUID `json:"variantId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// PaymentDetailsRequest carries the per-method split of a MIXTO sale
type PaymentDetailsRequest struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	QR       decimal.Decimal `json:"qr"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
}

// CreateSaleRequest contains the data to finalize a POS sale
type CreateSaleRequest struct {
	Lines          []SaleLineRequest      `json:"lines" binding:"required,min=1,dive"`
	Discount       decimal.Decimal        `json:"discount"`
	PaymentType    string                 `json:"paymentType" binding:"required,oneof=EFECTIVO QR TARJETA MIXTO"`
	PaymentDetails *PaymentDetailsRequest `json:"paymentDetails"`
}

// SaleListFilter contains query parameters for listing sales
type SaleListFilter struct {
	PaymentType string     `form:"paymentType"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page"`
	PageSize    int        `form:"pageSize"`
	OrderBy     string     `form:"orderBy"`
	OrderDir    string     `form:"orderDir"`
}

// SaleItemResponse is the API representation of a sale line
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variantId"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is the API representation of a finalized sale
type SaleResponse struct {
	ID             uuid.UUID              `json:"id"`
	BranchID       uuid.UUID              `json:"branchId"`
	RegisterID     uuid.UUID              `json:"registerId"`
	UserID         uuid.UUID              `json:"userId"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountAmount decimal.Decimal        `json:"discountAmount"`
	Total          decimal.Decimal        `json:"total"`
	PaymentType    string                 `json:"paymentType"`
	PaymentDetails *PaymentDetailsRequest `json:"paymentDetails,omitempty"`
	SaleDate       time.Time              `json:"saleDate"`
	Items          []SaleItemResponse     `json:"items"`
}

// ToSaleResponse converts a domain sale to its API representation
func ToSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount(),
			Subtotal:    item.Subtotal.Amount(),
		})
	}

	response := SaleResponse{
		ID:             s.ID,
		BranchID:       s.BranchID,
		RegisterID:     s.RegisterID,
		UserID:         s.UserID,
		Subtotal:       s.Subtotal.Amount(),
		DiscountAmount: s.DiscountAmount.Amount(),
		Total:          s.Total.Amount(),
		PaymentType:    string(s.PaymentType),
		SaleDate:       s.SaleDate,
		Items:          items,
	}
	if s.PaymentDetails != nil {
		response.PaymentDetails = &PaymentDetailsRequest{
			Efectivo: s.PaymentDetails.Efectivo,
			QR:       s.PaymentDetails.QR,
			Tarjeta:  s.PaymentDetails.Tarjeta,
		}
	}
	return response
}

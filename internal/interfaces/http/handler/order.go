package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/outsiders/backend/internal/application/sales"
)

// IdempotencyKeyHeader dedupes checkout retries
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles storefront checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *salesapp.CheckoutService
	orderService    *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *salesapp.CheckoutService, orderService *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Checkout converts the user's cart into an order. Retries carrying the
// same Idempotency-Key header are rejected as duplicates.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)

	order, err := h.checkoutService.Checkout(c.Request.Context(), userID, idempotencyKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetMyOrder returns one of the user's own orders
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListMyOrders returns the user's own orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter salesapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.orderService.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns any order by ID (back office)
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns all orders matching the filter (back office)
func (h *OrderHandler) List(c *gin.Context) {
	var filter salesapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateStatus moves an order along its fulfillment lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

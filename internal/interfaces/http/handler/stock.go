package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/outsiders/backend/internal/application/inventory"
)

// StockHandler handles per-branch stock and movement endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// GetEntry returns the stock of one variant at one branch
func (h *StockHandler) GetEntry(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "variantId")
	if !ok {
		return
	}
	branchID, ok := h.parseUUIDParam(c, "branchId")
	if !ok {
		return
	}

	entry, err := h.stockService.GetEntry(c.Request.Context(), variantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// ListByBranch returns all stock entries at a branch
func (h *StockHandler) ListByBranch(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "branchId")
	if !ok {
		return
	}

	var filter inventoryapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	entries, err := h.stockService.ListByBranch(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListByVariant returns a variant's stock across all branches
func (h *StockHandler) ListByVariant(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "variantId")
	if !ok {
		return
	}

	entries, err := h.stockService.ListByVariant(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListLowStock returns entries at or below the low stock threshold
func (h *StockHandler) ListLowStock(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "branchId")
	if !ok {
		return
	}

	entries, err := h.stockService.ListLowStock(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Adjust applies a relative stock delta with an audit movement
func (h *StockHandler) Adjust(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, err := h.stockService.Adjust(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// SetAbsolute sets a stock level outright, as after a physical count
func (h *StockHandler) SetAbsolute(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, err := h.stockService.SetAbsolute(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Transfer moves stock between branches atomically
func (h *StockHandler) Transfer(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stockService.Transfer(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MovementsByVariant returns the movement ledger of a variant
func (h *StockHandler) MovementsByVariant(c *gin.Context) {
	variantID, ok := h.parseUUIDParam(c, "variantId")
	if !ok {
		return
	}

	var filter inventoryapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	movements, err := h.stockService.MovementsByVariant(c.Request.Context(), variantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// MovementsByBranch returns the movement ledger of a branch
func (h *StockHandler) MovementsByBranch(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "branchId")
	if !ok {
		return
	}

	var filter inventoryapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	movements, err := h.stockService.MovementsByBranch(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

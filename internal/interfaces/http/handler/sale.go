package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/outsiders/backend/internal/application/sales"
)

// SaleHandler handles POS sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Finalize records a POS sale: stock out, payment in, register ledger
// updated, all in one shot. Retries carrying the same Idempotency-Key
// header are rejected as duplicates.
func (h *SaleHandler) Finalize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "Branch could not be resolved")
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)

	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.saleService.Finalize(c.Request.Context(), userID, branchID, idempotencyKey, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get returns a sale by ID
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListByBranch returns sales at the caller's branch
func (h *SaleHandler) ListByBranch(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "Branch could not be resolved")
		return
	}

	var filter salesapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.saleService.ListByBranch(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByRegister returns all sales of one register session
func (h *SaleHandler) ListByRegister(c *gin.Context) {
	registerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sales, err := h.saleService.ListByRegister(c.Request.Context(), registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sales)
}

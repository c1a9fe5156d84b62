package handler

import (
	"github.com/gin-gonic/gin"
	cashierapp "github.com/outsiders/backend/internal/application/cashier"
)

// CashierHandler handles cash register session endpoints
type CashierHandler struct {
	BaseHandler
	registerService *cashierapp.RegisterService
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(registerService *cashierapp.RegisterService) *CashierHandler {
	return &CashierHandler{registerService: registerService}
}

// Open starts a register session at the caller's branch
func (h *CashierHandler) Open(c *gin.Context) {
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

	var req cashierapp.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	register, err := h.registerService.Open(c.Request.Context(), userID, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, register)
}

// Current returns the open register session at the caller's branch
func (h *CashierHandler) Current(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "Branch could not be resolved")
		return
	}

	register, err := h.registerService.Current(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, register)
}

// PostMovement posts a manual cash movement against the open session
func (h *CashierHandler) PostMovement(c *gin.Context) {
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

	var req cashierapp.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	movement, err := h.registerService.PostMovement(c.Request.Context(), userID, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// Close reconciles and closes the open session at the caller's branch
func (h *CashierHandler) Close(c *gin.Context) {
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

	var req cashierapp.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	register, err := h.registerService.Close(c.Request.Context(), userID, branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, register)
}

// Summary returns the running totals of a register session
func (h *CashierHandler) Summary(c *gin.Context) {
	registerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.registerService.Summary(c.Request.Context(), registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// History returns past register sessions at the caller's branch
func (h *CashierHandler) History(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "Branch could not be resolved")
		return
	}

	var filter cashierapp.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.registerService.History(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

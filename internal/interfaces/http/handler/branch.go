package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/outsiders/backend/internal/application/identity"
)

// BranchHandler handles branch administration endpoints
type BranchHandler struct {
	BaseHandler
	branchService *identityapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *identityapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create creates a new branch
func (h *BranchHandler) Create(c *gin.Context) {
	var req identityapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	branch, err := h.branchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, branch)
}

// Get returns a branch by ID
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// List returns all branches. Pass active=true to keep only active ones.
func (h *BranchHandler) List(c *gin.Context) {
	var branches []identityapp.BranchResponse
	var err error

	if c.Query("active") == "true" {
		branches, err = h.branchService.ListActive(c.Request.Context())
	} else {
		branches, err = h.branchService.List(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branches)
}

// Update updates a branch's details
func (h *BranchHandler) Update(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	branch, err := h.branchService.Update(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// Activate re-enables a branch
func (h *BranchHandler) Activate(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.Activate(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// Deactivate disables a branch
func (h *BranchHandler) Deactivate(c *gin.Context) {
	branchID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.Deactivate(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/outsiders/backend/internal/application/catalog"
)

// DropHandler handles drop administration endpoints
type DropHandler struct {
	BaseHandler
	dropService *catalogapp.DropService
}

// NewDropHandler creates a new DropHandler
func NewDropHandler(dropService *catalogapp.DropService) *DropHandler {
	return &DropHandler{dropService: dropService}
}

// Create creates a new drop
func (h *DropHandler) Create(c *gin.Context) {
	var req catalogapp.CreateDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	drop, err := h.dropService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, drop)
}

// Get returns a drop by ID
func (h *DropHandler) Get(c *gin.Context) {
	dropID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	drop, err := h.dropService.GetByID(c.Request.Context(), dropID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drop)
}

// List returns drops matching the filter
func (h *DropHandler) List(c *gin.Context) {
	var filter catalogapp.DropListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.dropService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a drop's details and product lineup
func (h *DropHandler) Update(c *gin.Context) {
	dropID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	drop, err := h.dropService.Update(c.Request.Context(), dropID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drop)
}

// Activate publishes a drop
func (h *DropHandler) Activate(c *gin.Context) {
	h.transition(c, h.dropService.Activate)
}

// Deactivate unpublishes a drop back to draft
func (h *DropHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.dropService.Deactivate)
}

// Finish closes a drop permanently
func (h *DropHandler) Finish(c *gin.Context) {
	h.transition(c, h.dropService.Finish)
}

func (h *DropHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*catalogapp.DropResponse, error)) {
	dropID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	drop, err := apply(c.Request.Context(), dropID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drop)
}

// Delete removes a drop
func (h *DropHandler) Delete(c *gin.Context) {
	dropID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dropService.Delete(c.Request.Context(), dropID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

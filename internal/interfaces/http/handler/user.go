package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/outsiders/backend/internal/application/identity"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create creates a new user account
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Get returns a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns users matching the filter
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a user's profile and branch assignment
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResetPassword sets a new password for a user
func (h *UserHandler) ResetPassword(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate re-enables a user account
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, h.userService.Activate)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, h.userService.Deactivate)
}

func (h *UserHandler) setActive(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*identityapp.UserInfo, error)) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := apply(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/outsiders/backend/internal/application/catalog"
)

// ProductHandler handles product administration endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// SetVisibilityRequest toggles a product's storefront visibility
type SetVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// AddVariantRequest adds a size variant to a product
type AddVariantRequest struct {
	Size string `json:"size" binding:"required,min=1,max=20"`
}

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ConfirmImageRequest links an uploaded image to the product
type ConfirmImageRequest struct {
	StorageKey string `json:"storageKey" binding:"required"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get returns a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns products matching the filter, hidden ones included
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a product's details
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetVisibility shows or hides a product on the storefront
func (h *ProductHandler) SetVisibility(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.SetVisibility(c.Request.Context(), productID, *req.Visible)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AddVariant adds a size variant to a product
func (h *ProductHandler) AddVariant(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.AddVariant(c.Request.Context(), productID, req.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GenerateImageUploadURL issues a presigned upload URL for a product image
func (h *ProductHandler) GenerateImageUploadURL(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	upload, err := h.productService.GenerateImageUploadURL(c.Request.Context(), productID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmImage links an uploaded image to the product
func (h *ProductHandler) ConfirmImage(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.ConfirmImage(c.Request.Context(), productID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

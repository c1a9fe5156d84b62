package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/outsiders/backend/internal/application/catalog"
)

// StoreHandler handles the public storefront catalog: visible products
// and currently live drops. No authentication required.
type StoreHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	dropService    *catalogapp.DropService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(productService *catalogapp.ProductService, dropService *catalogapp.DropService) *StoreHandler {
	return &StoreHandler{
		productService: productService,
		dropService:    dropService,
	}
}

// ListProducts returns visible products for the storefront
func (h *StoreHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.productService.ListVisible(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetProduct returns a single product for the storefront. Hidden
// products are not disclosed.
func (h *StoreHandler) GetProduct(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !product.Visible {
		h.NotFound(c, "Product not found")
		return
	}

	h.Success(c, product)
}

// ListLiveDrops returns drops that are live right now
func (h *StoreHandler) ListLiveDrops(c *gin.Context) {
	drops, err := h.dropService.ListLive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drops)
}

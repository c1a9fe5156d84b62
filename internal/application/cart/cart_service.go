package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Service handles shopping cart operations. Stock checks use the storefront
// counter on the product row; the hard reservation happens at checkout.
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(cartRepo cart.Repository, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the owner's cart, creating an empty one on first access
func (s *Service) Get(ctx context.Context, ownerID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product (optionally a specific size variant) to the cart.
// The line is merged with an existing one for the same product and variant;
// the merged quantity is capped by the product's storefront stock.
func (s *Service) AddItem(ctx context.Context, ownerID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Visible {
		return nil, shared.ErrNotFound
	}

	size := ""
	if req.VariantID != nil {
		variant := variantByID(product, *req.VariantID)
		if variant == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Variant does not belong to this product")
		}
		size = variant.Size
	}

	c, err := s.cartRepo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(req.ProductID, req.VariantID, size, req.Quantity, product.Price, product.Stock); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("Cart item added",
		zap.String("owner_id", ownerID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", req.Quantity))

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateItem replaces the quantity of a cart line. A quantity of zero or
// less removes the line.
func (s *Service) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	available := 0
	if req.Quantity > 0 {
		productID, ok := productOfItem(c, itemID)
		if !ok {
			return nil, shared.ErrNotFound
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		available = product.Stock
	}

	if err := c.UpdateItemQuantity(itemID, req.Quantity, available); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem deletes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// ApplyDiscount sets an absolute discount on the cart
func (s *Service) ApplyDiscount(ctx context.Context, ownerID uuid.UUID, req ApplyDiscountRequest) (*CartResponse, error) {
	c, err := s.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.ApplyDiscount(valueobject.NewMoneyBOB(req.Discount)); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, ownerID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

func variantByID(product *catalog.Product, variantID uuid.UUID) *catalog.ProductVariant {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}

func productOfItem(c *cart.Cart, itemID uuid.UUID) (uuid.UUID, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item.ProductID, true
		}
	}
	return uuid.Nil, false
}

package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cart"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckoutService turns a cart into a PENDING order. The order insert, the
// storefront stock decrements and the cart wipe run in one transaction; an
// Idempotency-Key reservation guards against double submission and is
// released when the checkout fails, so the client can retry with the same key.
type CheckoutService struct {
	scope          TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. The idempotency store may
// be nil, in which case duplicate submissions are not detected.
func NewCheckoutService(
	scope TransactionScope,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &CheckoutService{
		scope:          scope,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

// Checkout creates an order from the user's cart. The cart lines are
// snapshotted (name, size and price at purchase time), each product's
// storefront stock is decremented conditionally and the cart is emptied.
// Any failure rolls back every write and frees the idempotency key.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_order",
		telemetry.String(telemetry.SpanAttrUserID, userID.String()))
	defer span.End()

	reserved := false
	if s.idempotency != nil && idempotencyKey != "" {
		ok, err := s.idempotency.MarkProcessed(ctx, idempotencyKey, s.idempotencyTTL)
		if err != nil {
			// the store being down should not block checkouts
			s.logger.Warn("Idempotency store unavailable, proceeding without duplicate protection",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		} else if !ok {
			return nil, shared.ErrDuplicateSubmission
		} else {
			reserved = true
		}
	}

	order, err := s.checkout(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		if reserved {
			if releaseErr := s.idempotency.Release(ctx, idempotencyKey); releaseErr != nil {
				s.logger.Warn("Failed to release idempotency key",
					zap.String("key", idempotencyKey),
					zap.Error(releaseErr))
			}
		}
		return nil, err
	}

	span.SetAttributes(
		telemetry.String(telemetry.SpanAttrOrderID, order.ID.String()),
		telemetry.Int(telemetry.SpanAttrItemCount, len(order.Items)),
	)
	s.logger.Info("Checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.String()),
		zap.Int("items", len(order.Items)))

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *CheckoutService) checkout(ctx context.Context, userID uuid.UUID) (*sales.Order, error) {
	var order *sales.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.CartRepo().FindByOwner(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		products, err := s.cartProducts(ctx, repos.ProductRepo(), c)
		if err != nil {
			return err
		}

		// the price charged is the product's price at checkout, not the
		// one seen when the item went into the cart
		lines := make([]sales.OrderLine, 0, len(c.Items))
		for _, item := range c.Items {
			product, ok := products[item.ProductID]
			if !ok {
				return shared.ErrNotFound
			}
			lines = append(lines, sales.OrderLine{
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				ProductName: product.Name,
				Size:        item.Size,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
		}

		order, err = sales.NewOrder(userID, lines)
		if err != nil {
			return err
		}

		for _, item := range c.Items {
			if err := repos.ProductRepo().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		c.Clear()
		return repos.CartRepo().Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) cartProducts(ctx context.Context, productRepo catalog.ProductRepository, c *cart.Cart) (map[uuid.UUID]*catalog.Product, error) {
	seen := make(map[uuid.UUID]struct{}, len(c.Items))
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

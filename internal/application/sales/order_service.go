package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order queries and the status lifecycle. Orders are
// created by CheckoutService only; after that the status is the single
// mutable field.
type OrderService struct {
	orderRepo sales.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo sales.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetForUser retrieves an order, hiding other customers' orders behind
// NOT_FOUND rather than FORBIDDEN
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListByUser lists a customer's orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, err
	}

	userFilter := domainFilter
	userFilter.Filters["user_id"] = userID
	total, err := s.orderRepo.Count(ctx, userFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(toOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// List lists all orders matching the filter
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(toOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// UpdateStatus moves an order along its lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.TransitionTo(sales.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)))

	response := ToOrderResponse(order)
	return &response, nil
}

func buildOrderFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

func toOrderResponses(orders []sales.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}

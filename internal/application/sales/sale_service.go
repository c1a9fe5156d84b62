package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/sales"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/outsiders/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SaleService finalizes POS sales. A sale is atomic across three aggregates:
// the sale row with its items, one branch stock decrement per line (each with
// a VENTA audit movement) and the INGRESO rows on the open register. If any
// line lacks stock or the branch has no open register, nothing is written.
// An Idempotency-Key reservation blocks the double-clicked "cobrar" from
// charging the customer twice; the key is released on failure so the same
// request can be retried.
type SaleService struct {
	scope          TransactionScope
	saleRepo       sales.SaleRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService. The idempotency store may be
// nil, in which case duplicate submissions are not detected.
func NewSaleService(
	scope TransactionScope,
	saleRepo sales.SaleRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *SaleService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &SaleService{
		scope:          scope,
		saleRepo:       saleRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

// Finalize validates and persists a POS sale in a single transaction. A
// request repeating an already-reserved Idempotency-Key fails with
// DUPLICATE_SUBMISSION before anything is written.
func (s *SaleService) Finalize(ctx context.Context, userID, branchID uuid.UUID, idempotencyKey string, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "finalize",
		telemetry.String(telemetry.SpanAttrBranchID, branchID.String()),
		telemetry.String(telemetry.SpanAttrUserID, userID.String()),
		telemetry.String(telemetry.SpanAttrPaymentType, req.PaymentType))
	defer span.End()

	reserved := false
	if s.idempotency != nil && idempotencyKey != "" {
		ok, err := s.idempotency.MarkProcessed(ctx, idempotencyKey, s.idempotencyTTL)
		if err != nil {
			// the store being down should not block sales
			s.logger.Warn("Idempotency store unavailable, proceeding without duplicate protection",
				zap.String("branch_id", branchID.String()),
				zap.Error(err))
		} else if !ok {
			return nil, shared.ErrDuplicateSubmission
		} else {
			reserved = true
		}
	}

	sale, err := s.finalize(ctx, userID, branchID, req)
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
		telemetry.String(telemetry.SpanAttrSaleID, sale.ID.String()),
		telemetry.Int(telemetry.SpanAttrItemCount, len(sale.Items)),
	)
	s.logger.Info("Sale finalized",
		zap.String("sale_id", sale.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("user_id", userID.String()),
		zap.String("payment_type", string(sale.PaymentType)),
		zap.String("total", sale.Total.String()),
		zap.Int("items", len(sale.Items)))

	response := ToSaleResponse(sale)
	return &response, nil
}

func (s *SaleService) finalize(ctx context.Context, userID, branchID uuid.UUID, req CreateSaleRequest) (*sales.Sale, error) {
	var details *sales.PaymentDetails
	if req.PaymentDetails != nil {
		details = &sales.PaymentDetails{
			Efectivo: req.PaymentDetails.Efectivo,
			QR:       req.PaymentDetails.QR,
			Tarjeta:  req.PaymentDetails.Tarjeta,
		}
	}

	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		register, err := repos.RegisterRepo().FindOpenByBranch(ctx, branchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrNoOpenRegister
			}
			return err
		}

		lines, err := s.resolveLines(ctx, repos.ProductRepo(), req.Lines)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(branchID, register.ID, userID, lines,
			valueobject.NewMoneyBOB(req.Discount), sales.PaymentType(req.PaymentType), details)
		if err != nil {
			return err
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		for _, item := range sale.Items {
			if err := repos.StockRepo().Adjust(ctx, item.VariantID, branchID, -item.Quantity); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(item.VariantID, branchID, inventory.MovementSale, -item.Quantity, "Venta")
			if err != nil {
				return err
			}
			if err := repos.StockMovementRepo().Append(ctx, movement.WithReference(sale.ID).WithActor(userID)); err != nil {
				return err
			}
		}

		cashMovements, err := sale.RegisterMovements(register)
		if err != nil {
			return err
		}
		for _, movement := range cashMovements {
			if err := repos.CashMovementRepo().Append(ctx, movement); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// ListByBranch lists the sales of a branch, newest first
func (s *SaleService) ListByBranch(ctx context.Context, branchID uuid.UUID, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
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
	if filter.PaymentType != "" {
		domainFilter.Filters["paymentType"] = filter.PaymentType
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	salesList, err := s.saleRepo.FindByBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.saleRepo.Count(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, 0, len(salesList))
	for i := range salesList {
		responses = append(responses, ToSaleResponse(&salesList[i]))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListByRegister lists the sales of a register session
func (s *SaleService) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]SaleResponse, error) {
	salesList, err := s.saleRepo.FindByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, 0, len(salesList))
	for i := range salesList {
		responses = append(responses, ToSaleResponse(&salesList[i]))
	}
	return responses, nil
}

// resolveLines looks up each requested variant and snapshots the product
// name, size and current price into sale lines
func (s *SaleService) resolveLines(ctx context.Context, productRepo catalog.ProductRepository, reqLines []SaleLineRequest) ([]sales.SaleLine, error) {
	products := make(map[uuid.UUID]*catalog.Product)

	lines := make([]sales.SaleLine, 0, len(reqLines))
	for _, reqLine := range reqLines {
		variant, err := productRepo.FindVariantByID(ctx, reqLine.VariantID)
		if err != nil {
			return nil, err
		}

		product, ok := products[variant.ProductID]
		if !ok {
			product, err = productRepo.FindByID(ctx, variant.ProductID)
			if err != nil {
				return nil, err
			}
			products[variant.ProductID] = product
		}

		lines = append(lines, sales.SaleLine{
			VariantID:   variant.ID,
			ProductName: product.Name,
			Size:        variant.Size,
			Quantity:    reqLine.Quantity,
			UnitPrice:   product.Price,
		})
	}
	return lines, nil
}

package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/inventory"
	"github.com/outsiders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultLowStockThreshold = 5

// StockService handles per-branch stock operations. Every mutation goes
// through a conditional delta update and leaves an audit movement; the two
// writes always share one transaction.
type StockService struct {
	scope        TransactionScope
	stockRepo    inventory.StockRepository
	movementRepo inventory.MovementRepository
	lowThreshold int
	logger       *zap.Logger
}

// NewStockService creates a new StockService. A non-positive lowThreshold
// falls back to the default of 5 units.
func NewStockService(
	scope TransactionScope,
	stockRepo inventory.StockRepository,
	movementRepo inventory.MovementRepository,
	lowThreshold int,
	logger *zap.Logger,
) *StockService {
	if lowThreshold <= 0 {
		lowThreshold = defaultLowStockThreshold
	}
	return &StockService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		lowThreshold: lowThreshold,
		logger:       logger,
	}
}

// GetEntry returns the stock entry for a (variant, branch) pair
func (s *StockService) GetEntry(ctx context.Context, variantID, branchID uuid.UUID) (*StockEntryResponse, error) {
	entry, err := s.stockRepo.FindByVariantAndBranch(ctx, variantID, branchID)
	if err != nil {
		return nil, err
	}

	response := ToStockEntryResponse(entry, s.lowThreshold)
	return &response, nil
}

// ListByBranch returns the stock entries at a branch
func (s *StockService) ListByBranch(ctx context.Context, branchID uuid.UUID, filter ListFilter) ([]StockEntryResponse, error) {
	entries, err := s.stockRepo.FindByBranch(ctx, branchID, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return s.toEntryResponses(entries), nil
}

// ListByVariant returns a variant's stock across all branches
func (s *StockService) ListByVariant(ctx context.Context, variantID uuid.UUID) ([]StockEntryResponse, error) {
	entries, err := s.stockRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return s.toEntryResponses(entries), nil
}

// ListLowStock returns the entries at or below the configured threshold
func (s *StockService) ListLowStock(ctx context.Context, branchID uuid.UUID) ([]StockEntryResponse, error) {
	entries, err := s.stockRepo.FindLowStock(ctx, branchID, s.lowThreshold)
	if err != nil {
		return nil, err
	}
	return s.toEntryResponses(entries), nil
}

// Adjust applies a signed delta to a stock entry and records an AJUSTE
// movement. Both writes happen in one transaction.
func (s *StockService) Adjust(ctx context.Context, actorID uuid.UUID, req AdjustStockRequest) (*StockEntryResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment delta cannot be zero")
	}

	var entry *inventory.StockEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.StockRepo().GetOrCreate(ctx, req.VariantID, req.BranchID); err != nil {
			return err
		}
		if err := repos.StockRepo().Adjust(ctx, req.VariantID, req.BranchID, req.Delta); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(req.VariantID, req.BranchID, inventory.MovementAdjustment, req.Delta, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement.WithActor(actorID)); err != nil {
			return err
		}

		entry, err = repos.StockRepo().FindByVariantAndBranch(ctx, req.VariantID, req.BranchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("variant_id", req.VariantID.String()),
		zap.String("branch_id", req.BranchID.String()),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", entry.Quantity))

	response := ToStockEntryResponse(entry, s.lowThreshold)
	return &response, nil
}

// SetAbsolute moves a stock entry to an absolute quantity. The target is
// translated into a signed delta so the conditional update still guards
// against concurrent writers; setting the current quantity is a no-op.
func (s *StockService) SetAbsolute(ctx context.Context, actorID uuid.UUID, req SetStockRequest) (*StockEntryResponse, error) {
	var entry *inventory.StockEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.StockRepo().GetOrCreate(ctx, req.VariantID, req.BranchID)
		if err != nil {
			return err
		}

		delta, err := current.DeltaTo(req.Quantity)
		if err != nil {
			return err
		}
		if delta == 0 {
			entry = current
			return nil
		}

		if err := repos.StockRepo().Adjust(ctx, req.VariantID, req.BranchID, delta); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(req.VariantID, req.BranchID, inventory.MovementAdjustment, delta, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement.WithActor(actorID)); err != nil {
			return err
		}

		entry, err = repos.StockRepo().FindByVariantAndBranch(ctx, req.VariantID, req.BranchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToStockEntryResponse(entry, s.lowThreshold)
	return &response, nil
}

// Transfer moves stock between two branches. The debit, the credit and both
// TRANSFERENCIA movements run in a single transaction: if the source branch
// lacks the quantity, nothing is written anywhere.
func (s *StockService) Transfer(ctx context.Context, actorID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	if req.FromBranchID == req.ToBranchID || req.Quantity <= 0 {
		return nil, shared.ErrInvalidTransfer
	}

	transferID := uuid.New()
	var fromEntry, toEntry *inventory.StockEntry

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.StockRepo().Adjust(ctx, req.VariantID, req.FromBranchID, -req.Quantity); err != nil {
			return err
		}

		if _, err := repos.StockRepo().GetOrCreate(ctx, req.VariantID, req.ToBranchID); err != nil {
			return err
		}
		if err := repos.StockRepo().Adjust(ctx, req.VariantID, req.ToBranchID, req.Quantity); err != nil {
			return err
		}

		out, err := inventory.NewStockMovement(req.VariantID, req.FromBranchID, inventory.MovementTransfer, -req.Quantity, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, out.WithReference(transferID).WithActor(actorID)); err != nil {
			return err
		}

		in, err := inventory.NewStockMovement(req.VariantID, req.ToBranchID, inventory.MovementTransfer, req.Quantity, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, in.WithReference(transferID).WithActor(actorID)); err != nil {
			return err
		}

		if fromEntry, err = repos.StockRepo().FindByVariantAndBranch(ctx, req.VariantID, req.FromBranchID); err != nil {
			return err
		}
		toEntry, err = repos.StockRepo().FindByVariantAndBranch(ctx, req.VariantID, req.ToBranchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock transferred",
		zap.String("transfer_id", transferID.String()),
		zap.String("variant_id", req.VariantID.String()),
		zap.String("from_branch_id", req.FromBranchID.String()),
		zap.String("to_branch_id", req.ToBranchID.String()),
		zap.Int("quantity", req.Quantity))

	return &TransferResponse{
		TransferID: transferID,
		From:       ToStockEntryResponse(fromEntry, s.lowThreshold),
		To:         ToStockEntryResponse(toEntry, s.lowThreshold),
	}, nil
}

// MovementsByVariant lists the audit trail of a variant, newest first
func (s *StockService) MovementsByVariant(ctx context.Context, variantID uuid.UUID, filter ListFilter) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByVariant(ctx, variantID, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// MovementsByBranch lists the audit trail of a branch, newest first
func (s *StockService) MovementsByBranch(ctx context.Context, branchID uuid.UUID, filter ListFilter) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByBranch(ctx, branchID, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

func (s *StockService) toEntryResponses(entries []inventory.StockEntry) []StockEntryResponse {
	responses := make([]StockEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToStockEntryResponse(&entries[i], s.lowThreshold))
	}
	return responses
}

func toMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses
}

func buildFilter(filter ListFilter) shared.Filter {
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
	return domainFilter
}

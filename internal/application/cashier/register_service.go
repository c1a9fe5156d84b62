package cashier

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// RegisterService handles cash register sessions: opening, the movement
// ledger and the close-time reconciliation. A branch has at most one open
// session; the service checks before opening and the partial unique index
// settles races.
type RegisterService struct {
	scope        TransactionScope
	registerRepo cashier.RegisterRepository
	movementRepo cashier.MovementRepository
	logger       *zap.Logger
}

// NewRegisterService creates a new RegisterService
func NewRegisterService(
	scope TransactionScope,
	registerRepo cashier.RegisterRepository,
	movementRepo cashier.MovementRepository,
	logger *zap.Logger,
) *RegisterService {
	return &RegisterService{
		scope:        scope,
		registerRepo: registerRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// Open starts a register session with an opening cash float. The register row
// and the synthetic opening INGRESO are written in one transaction.
func (s *RegisterService) Open(ctx context.Context, userID, branchID uuid.UUID, req OpenRegisterRequest) (*RegisterResponse, error) {
	register, err := cashier.OpenRegister(branchID, userID, valueobject.NewMoneyBOB(req.OpeningAmount), req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.RegisterRepo().FindOpenByBranch(ctx, branchID)
		if err == nil {
			return shared.ErrRegisterAlreadyOpen
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if err := repos.RegisterRepo().Save(ctx, register); err != nil {
			return err
		}
		return repos.CashMovementRepo().Append(ctx, register.OpeningMovement())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash register opened",
		zap.String("register_id", register.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("opened_by", userID.String()),
		zap.String("opening_amount", register.OpeningAmount.String()))

	response := ToRegisterResponse(register)
	return &response, nil
}

// Current returns the open session of a branch
func (s *RegisterService) Current(ctx context.Context, branchID uuid.UUID) (*RegisterResponse, error) {
	register, err := s.registerRepo.FindOpenByBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoOpenRegister
		}
		return nil, err
	}

	response := ToRegisterResponse(register)
	return &response, nil
}

// PostMovement appends a manual INGRESO or EGRESO to the open session. The
// open-register check and the append share one transaction, so a concurrent
// Close cannot slip a movement into a session it already reconciled.
func (s *RegisterService) PostMovement(ctx context.Context, userID, branchID uuid.UUID, req MovementRequest) (*CashMovementResponse, error) {
	var (
		register *cashier.CashRegister
		movement *cashier.CashMovement
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		register, err = repos.RegisterRepo().FindOpenByBranch(ctx, branchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrRegisterNotOpen
			}
			return err
		}

		movement, err = cashier.NewCashMovement(
			register,
			cashier.MovementType(req.Type),
			cashier.PaymentMethod(req.PaymentMethod),
			valueobject.NewMoneyBOB(req.Amount),
			req.Concept,
		)
		if err != nil {
			return err
		}

		return repos.CashMovementRepo().Append(ctx, movement.WithActor(userID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Cash movement posted",
		zap.String("register_id", register.ID.String()),
		zap.String("type", req.Type),
		zap.String("method", req.PaymentMethod),
		zap.String("amount", movement.Amount.String()))

	response := ToCashMovementResponse(movement)
	return &response, nil
}

// Close finishes the open session of a branch. The expected totals are summed
// from the session's INGRESO movements and the register is updated in the
// same transaction, so a movement posted after the sum cannot slip into a
// closed session. A cash difference is recorded, never rejected.
func (s *RegisterService) Close(ctx context.Context, userID, branchID uuid.UUID, req CloseRegisterRequest) (*RegisterResponse, error) {
	var register *cashier.CashRegister

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		register, err = repos.RegisterRepo().FindOpenByBranch(ctx, branchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrNoOpenRegister
			}
			return err
		}

		income, err := repos.CashMovementRepo().SumIncomeByMethod(ctx, register.ID)
		if err != nil {
			return err
		}

		expected := cashier.ComputeExpectedTotals(income)
		if err := register.Close(userID, valueobject.NewMoneyBOB(req.CountedCash), req.Notes, expected); err != nil {
			return err
		}

		return repos.RegisterRepo().SaveWithLock(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash register closed",
		zap.String("register_id", register.ID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("closed_by", userID.String()),
		zap.String("expected_cash", register.ExpectedCash.String()),
		zap.String("cash_difference", register.CashDifference.String()))

	response := ToRegisterResponse(register)
	return &response, nil
}

// summaryLedgerCap bounds the movement ledger embedded in a session summary.
// A longer ledger is cut at the cap and flagged truncated; the full ledger
// stays available through the paginated movement listing.
const summaryLedgerCap = 200

// Summary returns the live view of a session: per-method income so far, the
// number of finalized sales and the ledger
func (s *RegisterService) Summary(ctx context.Context, registerID uuid.UUID) (*RegisterSummaryResponse, error) {
	register, err := s.registerRepo.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}

	income, err := s.movementRepo.SumIncomeByMethod(ctx, registerID)
	if err != nil {
		return nil, err
	}
	expected := cashier.ComputeExpectedTotals(income)

	salesCount, err := s.movementRepo.CountSales(ctx, registerID)
	if err != nil {
		return nil, err
	}

	// fetch one row past the cap to tell a full page from a truncated one
	filter := shared.DefaultFilter()
	filter.PageSize = summaryLedgerCap + 1
	movements, err := s.movementRepo.FindByRegister(ctx, registerID, filter)
	if err != nil {
		return nil, err
	}

	truncated := len(movements) > summaryLedgerCap
	if truncated {
		movements = movements[:summaryLedgerCap]
	}

	responses := make([]CashMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToCashMovementResponse(&movements[i]))
	}

	return &RegisterSummaryResponse{
		Register:        ToRegisterResponse(register),
		IncomeCash:      expected.Cash.Amount(),
		IncomeQR:        expected.QR.Amount(),
		IncomeCard:      expected.Card.Amount(),
		IncomeTotal:     expected.Total.Amount(),
		SalesCount:      salesCount,
		MovementCount:   len(responses),
		Movements:       responses,
		LedgerTruncated: truncated,
	}, nil
}

// History lists past sessions of a branch, newest first
func (s *RegisterService) History(ctx context.Context, branchID uuid.UUID, filter HistoryFilter) (*shared.Paginated[RegisterResponse], error) {
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
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	registers, err := s.registerRepo.FindHistory(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.registerRepo.Count(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]RegisterResponse, 0, len(registers))
	for i := range registers {
		responses = append(responses, ToRegisterResponse(&registers[i]))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

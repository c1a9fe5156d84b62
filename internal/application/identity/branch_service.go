package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/identity"
	"github.com/outsiders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BranchService handles branch administration
type BranchService struct {
	branchRepo identity.BranchRepository
	logger     *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo identity.BranchRepository, logger *zap.Logger) *BranchService {
	return &BranchService{
		branchRepo: branchRepo,
		logger:     logger,
	}
}

// Create creates a branch
func (s *BranchService) Create(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error) {
	branch, err := identity.NewBranch(req.Name, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("Branch created",
		zap.String("branch_id", branch.ID.String()),
		zap.String("name", branch.Name))

	response := ToBranchResponse(branch)
	return &response, nil
}

// GetByID retrieves a branch by ID
func (s *BranchService) GetByID(ctx context.Context, branchID uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	response := ToBranchResponse(branch)
	return &response, nil
}

// List retrieves all branches
func (s *BranchService) List(ctx context.Context) ([]BranchResponse, error) {
	branches, err := s.branchRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return toBranchResponses(branches), nil
}

// ListActive retrieves the branches accepting operations
func (s *BranchService) ListActive(ctx context.Context) ([]BranchResponse, error) {
	branches, err := s.branchRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return toBranchResponses(branches), nil
}

// Update modifies a branch's details
func (s *BranchService) Update(ctx context.Context, branchID uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if err := branch.UpdateDetails(req.Name, req.Address, req.Phone); err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	response := ToBranchResponse(branch)
	return &response, nil
}

// Deactivate closes a branch for operations without deleting its history
func (s *BranchService) Deactivate(ctx context.Context, branchID uuid.UUID) (*BranchResponse, error) {
	return s.setActive(ctx, branchID, false)
}

// Activate reopens a branch
func (s *BranchService) Activate(ctx context.Context, branchID uuid.UUID) (*BranchResponse, error) {
	return s.setActive(ctx, branchID, true)
}

func (s *BranchService) setActive(ctx context.Context, branchID uuid.UUID, active bool) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if active {
		branch.Activate()
	} else {
		branch.Deactivate()
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("Branch active flag changed",
		zap.String("branch_id", branchID.String()),
		zap.Bool("active", active))

	response := ToBranchResponse(branch)
	return &response, nil
}

func toBranchResponses(branches []identity.Branch) []BranchResponse {
	responses := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		responses = append(responses, ToBranchResponse(&branches[i]))
	}
	return responses
}

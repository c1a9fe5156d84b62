package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/identity"
	"github.com/outsiders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles account administration. All operations here are
// admin-only; self-service lives on AuthService.
type UserService struct {
	userRepo   identity.UserRepository
	branchRepo identity.BranchRepository
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, branchRepo identity.BranchRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		logger:     logger,
	}
}

// Create creates an account. Sellers must be pinned to an existing branch.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	if req.BranchID != nil {
		if _, err := s.branchRepo.FindByID(ctx, *req.BranchID); err != nil {
			return nil, err
		}
	}

	user, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role), req.BranchID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		if err := user.SetFullName(req.FullName); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByUsername(ctx, user.Username); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	info := ToUserInfo(user)
	return &info, nil
}

// GetByID retrieves an account by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// List retrieves accounts with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserInfo], error) {
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
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.BranchID != nil {
		domainFilter.Filters["branchId"] = *filter.BranchID
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, ToUserInfo(&users[i]))
	}

	result := shared.NewPaginated(infos, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update modifies an account's mutable fields
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if err := user.SetFullName(*req.FullName); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil {
		if _, err := s.branchRepo.FindByID(ctx, *req.BranchID); err != nil {
			return nil, err
		}
		user.AssignBranch(*req.BranchID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password reset", zap.String("user_id", userID.String()))
	return nil
}

// Deactivate blocks an account from logging in
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	return s.setActive(ctx, userID, false)
}

// Activate re-enables an account
func (s *UserService) Activate(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	return s.setActive(ctx, userID, true)
}

func (s *UserService) setActive(ctx context.Context, userID uuid.UUID, active bool) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User active flag changed",
		zap.String("user_id", userID.String()),
		zap.Bool("active", active))

	info := ToUserInfo(user)
	return &info, nil
}

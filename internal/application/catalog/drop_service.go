package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DropService handles drop (timed collection) operations
type DropService struct {
	dropRepo    catalog.DropRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewDropService creates a new DropService
func NewDropService(dropRepo catalog.DropRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *DropService {
	return &DropService{
		dropRepo:    dropRepo,
		productRepo: productRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a new drop and optionally attaches products
func (s *DropService) Create(ctx context.Context, req CreateDropRequest) (*DropResponse, error) {
	drop, err := catalog.NewDrop(req.Name, req.Description, req.LaunchDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	drop.SetFeatured(req.Featured)

	if len(req.ProductIDs) > 0 {
		if err := s.verifyProducts(ctx, req.ProductIDs); err != nil {
			return nil, err
		}
		drop.ReplaceProducts(req.ProductIDs)
	}

	if err := s.dropRepo.Save(ctx, drop); err != nil {
		return nil, err
	}

	s.logger.Info("Drop created",
		zap.String("drop_id", drop.ID.String()),
		zap.String("name", drop.Name))

	response := ToDropResponse(drop, s.now())
	return &response, nil
}

// GetByID retrieves a drop by ID
func (s *DropService) GetByID(ctx context.Context, dropID uuid.UUID) (*DropResponse, error) {
	drop, err := s.dropRepo.FindByID(ctx, dropID)
	if err != nil {
		return nil, err
	}

	response := ToDropResponse(drop, s.now())
	return &response, nil
}

// List retrieves drops with filtering and pagination
func (s *DropService) List(ctx context.Context, filter DropListFilter) (*shared.Paginated[DropResponse], error) {
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
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}

	drops, err := s.dropRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.dropRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]DropResponse, 0, len(drops))
	for i := range drops {
		responses = append(responses, ToDropResponse(&drops[i], now))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListLive retrieves the drops currently visible on the storefront
func (s *DropService) ListLive(ctx context.Context) ([]DropResponse, error) {
	now := s.now()
	drops, err := s.dropRepo.FindLive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]DropResponse, 0, len(drops))
	for i := range drops {
		responses = append(responses, ToDropResponse(&drops[i], now))
	}
	return responses, nil
}

// Update modifies a drop's details and product lineup
func (s *DropService) Update(ctx context.Context, dropID uuid.UUID, req UpdateDropRequest) (*DropResponse, error) {
	drop, err := s.dropRepo.FindByID(ctx, dropID)
	if err != nil {
		return nil, err
	}

	if err := drop.UpdateDetails(req.Name, req.Description, req.LaunchDate, req.EndDate); err != nil {
		return nil, err
	}

	if req.Featured != nil {
		drop.SetFeatured(*req.Featured)
	}

	if req.ProductIDs != nil {
		if err := s.verifyProducts(ctx, req.ProductIDs); err != nil {
			return nil, err
		}
		drop.ReplaceProducts(req.ProductIDs)
	}

	if err := s.dropRepo.Save(ctx, drop); err != nil {
		return nil, err
	}

	response := ToDropResponse(drop, s.now())
	return &response, nil
}

// Activate makes the drop eligible for the storefront
func (s *DropService) Activate(ctx context.Context, dropID uuid.UUID) (*DropResponse, error) {
	return s.transition(ctx, dropID, func(d *catalog.Drop) error { return d.Activate() })
}

// Deactivate hides the drop without finishing it
func (s *DropService) Deactivate(ctx context.Context, dropID uuid.UUID) (*DropResponse, error) {
	return s.transition(ctx, dropID, func(d *catalog.Drop) error { return d.Deactivate() })
}

// Finish permanently closes the drop
func (s *DropService) Finish(ctx context.Context, dropID uuid.UUID) (*DropResponse, error) {
	return s.transition(ctx, dropID, func(d *catalog.Drop) error {
		d.Finish()
		return nil
	})
}

func (s *DropService) transition(ctx context.Context, dropID uuid.UUID, apply func(*catalog.Drop) error) (*DropResponse, error) {
	drop, err := s.dropRepo.FindByID(ctx, dropID)
	if err != nil {
		return nil, err
	}

	if err := apply(drop); err != nil {
		return nil, err
	}

	if err := s.dropRepo.Save(ctx, drop); err != nil {
		return nil, err
	}

	response := ToDropResponse(drop, s.now())
	return &response, nil
}

// Delete removes a drop. Products assigned to it are detached by the
// repository, not deleted.
func (s *DropService) Delete(ctx context.Context, dropID uuid.UUID) error {
	if _, err := s.dropRepo.FindByID(ctx, dropID); err != nil {
		return err
	}
	return s.dropRepo.Delete(ctx, dropID)
}

func (s *DropService) verifyProducts(ctx context.Context, productIDs []uuid.UUID) error {
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	if len(products) != len(productIDs) {
		return shared.NewDomainError("INVALID_INPUT", "One or more products do not exist")
	}
	return nil
}

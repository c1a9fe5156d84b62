package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/catalog"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ObjectStorageService abstracts the S3-compatible media store
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// allowed content types for product images
var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo     catalog.ProductRepository
	dropRepo        catalog.DropRepository
	storage         ObjectStorageService
	uploadURLExpiry time.Duration
	logger          *zap.Logger
}

// NewProductService creates a new ProductService. storage may be nil when
// no media backend is configured; image operations then fail gracefully.
func NewProductService(
	productRepo catalog.ProductRepository,
	dropRepo catalog.DropRepository,
	storage ObjectStorageService,
	uploadURLExpiry time.Duration,
	logger *zap.Logger,
) *ProductService {
	if uploadURLExpiry <= 0 {
		uploadURLExpiry = 15 * time.Minute
	}
	return &ProductService{
		productRepo:     productRepo,
		dropRepo:        dropRepo,
		storage:         storage,
		uploadURLExpiry: uploadURLExpiry,
		logger:          logger,
	}
}

// Create creates a new product with its size variants
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price := valueobject.NewMoneyBOB(req.Price)

	product, err := catalog.NewProduct(req.Name, req.Description, req.Category, price, req.Sizes)
	if err != nil {
		return nil, err
	}

	if req.DropID != nil {
		if _, err := s.dropRepo.FindByID(ctx, *req.DropID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_INPUT", "Drop not found")
			}
			return nil, err
		}
		product.AssignToDrop(*req.DropID)
	}

	if req.Visible != nil {
		product.SetVisibility(*req.Visible)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
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
	domainFilter.Search = filter.Search

	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.DropID != nil {
		domainFilter.Filters["drop_id"] = *filter.DropID
	}
	if filter.Visible != nil {
		domainFilter.Filters["visible"] = *filter.Visible
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListVisible retrieves the storefront view: visible products only
func (s *ProductService) ListVisible(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	visible := true
	filter.Visible = &visible
	return s.List(ctx, filter)
}

// Update modifies the product details
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	price := valueobject.NewMoneyBOB(req.Price)
	if err := product.UpdateDetails(req.Name, req.Description, req.Category, price); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetVisibility shows or hides a product on the storefront
func (s *ProductService) SetVisibility(ctx context.Context, productID uuid.UUID, visible bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.SetVisibility(visible)

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// AddVariant adds a size variant to a product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, size string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.AddVariant(size); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

// GenerateImageUploadURL issues a presigned PUT URL for a product image.
// The product must exist; the image is linked with ConfirmImage once the
// client finishes the upload.
func (s *ProductService) GenerateImageUploadURL(ctx context.Context, productID uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	ext, ok := imageContentTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported image content type")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if s.storage == nil {
		return nil, shared.ErrUpstreamFailure
	}

	storageKey := fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return nil, shared.ErrUpstreamFailure
	}

	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		PublicURL:  "/media/" + storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmImage links an uploaded image to the product. A missing object in
// storage is reported; a storage outage is tolerated and the link proceeds.
func (s *ProductService) ConfirmImage(ctx context.Context, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.storage != nil {
		exists, err := s.storage.ObjectExists(ctx, storageKey)
		if err != nil {
			// storage being down must not block catalog management
			s.logger.Warn("Could not verify uploaded image, linking anyway",
				zap.String("storage_key", storageKey),
				zap.Error(err))
		} else if !exists {
			return nil, shared.NewDomainError("INVALID_INPUT", "Uploaded image not found in storage")
		}
	}

	product.SetImageURL("/media/" + storageKey)

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/event"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// DefaultUploadConcurrency bounds parallel uploads within one request.
const DefaultUploadConcurrency = 4

// ProductService implements the business logic for product operations.
type ProductService struct {
	products          repository.ProductRepository
	categories        repository.CategoryRepository
	brands            repository.BrandRepository
	vendors           repository.VendorRepository
	store             storage.Storage
	producer          *event.Producer
	stats             *StatsInvalidator
	logger            *slog.Logger
	uploadConcurrency int
	now               func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	brands repository.BrandRepository,
	vendors repository.VendorRepository,
	store storage.Storage,
	producer *event.Producer,
	stats *StatsInvalidator,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:          products,
		categories:        categories,
		brands:            brands,
		vendors:           vendors,
		store:             store,
		producer:          producer,
		stats:             stats,
		logger:            logger,
		uploadConcurrency: DefaultUploadConcurrency,
		now:               time.Now,
	}
}

// SetUploadConcurrency changes how many attachments upload at once.
func (s *ProductService) SetUploadConcurrency(n int) {
	if n > 0 {
		s.uploadConcurrency = n
	}
}

// GetProduct returns a product with the root-first chain of its categories.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.ProductDetail, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := ResolveCategoryPath(ctx, s.categories, p.Category)
	if err != nil {
		return nil, err
	}
	return &domain.ProductDetail{Product: p, CategoryPath: path}, nil
}

// ListProducts returns one page of products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) (pagination.Result[domain.Product], error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return pagination.NewResult(products, total, filter.Params), nil
}

// checkReferences verifies that the category, brand and vendor exist.
func (s *ProductService) checkReferences(ctx context.Context, p *domain.Product) error {
	if _, err := s.categories.GetByID(ctx, p.Category); err != nil {
		return err
	}
	if _, err := s.brands.GetByID(ctx, p.Brand); err != nil {
		return err
	}
	if _, err := s.vendors.GetByID(ctx, p.VendorID); err != nil {
		return err
	}
	return nil
}

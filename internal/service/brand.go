package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// BrandService implements the business logic for brands.
type BrandService struct {
	repo   repository.BrandRepository
	stats  *StatsInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewBrandService creates a new brand service.
func NewBrandService(repo repository.BrandRepository, stats *StatsInvalidator, logger *slog.Logger) *BrandService {
	return &BrandService{
		repo:   repo,
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

// ListBrands returns every brand sorted by name.
func (s *BrandService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// CreateBrand stores a brand with a case-insensitively unique name.
func (s *BrandService) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	now := s.now().UTC()
	b := &domain.Brand{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "brand created", slog.String("brand_id", b.ID))
	s.stats.Invalidate(ctx)
	return b, nil
}

// UpdateBrand renames a brand.
func (s *BrandService) UpdateBrand(ctx context.Context, id, name string) (*domain.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = name
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBrand removes a brand no product refers to.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "brand deleted", slog.String("brand_id", id))
	s.stats.Invalidate(ctx)
	return nil
}

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

// CategoryService implements the business logic for the category forest.
type CategoryService struct {
	repo   repository.CategoryRepository
	stats  *StatsInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, stats *StatsInvalidator, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

// CategoryInput holds the writable fields of a category.
type CategoryInput struct {
	Name   string
	Parent *string
	Image  *domain.Image
}

// ListCategories returns every category sorted by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// CreateCategory stores a new category under an optional existing parent.
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	parent := blankToNil(in.Parent)
	if parent != nil {
		if _, err := s.repo.GetByID(ctx, *parent); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	c := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Parent:    parent,
		Image:     in.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category created", slog.String("category_id", c.ID))
	s.stats.Invalidate(ctx)
	return c, nil
}

// UpdateCategory renames or re-parents a category. A parent that is the
// category itself or one of its descendants is rejected.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}

	parent := blankToNil(in.Parent)
	if parent != nil {
		if *parent == c.ID {
			return nil, apperrors.InvalidInput("a category cannot be its own parent")
		}
		cycle, err := wouldCreateCycle(ctx, s.repo, c.ID, *parent)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, apperrors.InvalidInput("parent would create a category cycle")
		}
	}

	c.Name = name
	c.Parent = parent
	if in.Image != nil {
		c.Image = in.Image
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category updated", slog.String("category_id", c.ID))
	return c, nil
}

// DeleteCategory removes a leaf category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count child categories: %w", err)
	}
	if children > 0 {
		return apperrors.Conflict("category has subcategories; delete them first")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))
	s.stats.Invalidate(ctx)
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// CategoryLookup fetches a single category. repository.CategoryRepository
// satisfies it.
type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

// ResolveCategoryPath walks parent references upward from id and returns the
// chain root first. At most domain.MaxCategoryDepth categories are visited, so
// cyclic data yields a partial chain instead of looping. A dangling parent ends
// the walk with what has been collected.
func ResolveCategoryPath(ctx context.Context, lookup CategoryLookup, id string) ([]domain.Category, error) {
	path := []domain.Category{}
	next := id
	for depth := 0; next != "" && depth < domain.MaxCategoryDepth; depth++ {
		c, err := lookup.GetByID(ctx, next)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				break
			}
			return nil, fmt.Errorf("resolve category path: %w", err)
		}
		path = append(path, *c)
		next = ""
		if c.Parent != nil {
			next = *c.Parent
		}
	}

	slices.Reverse(path)
	return path, nil
}

// wouldCreateCycle reports whether giving category id the parent parentID
// makes id its own ancestor. Unlike ResolveCategoryPath the walk is not depth
// capped: it follows parents to a root, stopping only at a dangling reference
// or a node it has already seen. A missing parentID is NotFound.
func wouldCreateCycle(ctx context.Context, lookup CategoryLookup, id, parentID string) (bool, error) {
	seen := make(map[string]struct{})
	next := parentID
	for next != "" {
		if next == id {
			return true, nil
		}
		if _, ok := seen[next]; ok {
			// already looping above id; linking into it is refused too
			return true, nil
		}
		seen[next] = struct{}{}

		c, err := lookup.GetByID(ctx, next)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				if next == parentID {
					return false, apperrors.NotFound("parent category", parentID)
				}
				return false, nil
			}
			return false, fmt.Errorf("check category ancestry: %w", err)
		}
		next = ""
		if c.Parent != nil {
			next = *c.Parent
		}
	}
	return false, nil
}

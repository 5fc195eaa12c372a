package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// Media library folders and how many assets each contributes.
var libraryFolders = []storage.SearchQuery{
	{Folder: domain.FolderProducts, MaxResults: 100},
	{Folder: domain.FolderBanners, MaxResults: 50},
}

// MediaService browses and prunes the media library.
type MediaService struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(store storage.Storage, logger *slog.Logger) *MediaService {
	return &MediaService{store: store, logger: logger}
}

// ListAssets searches the product and banner folders concurrently and merges
// the results newest first.
func (s *MediaService) ListAssets(ctx context.Context) ([]domain.MediaAsset, error) {
	results := make([][]domain.MediaAsset, len(libraryFolders))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range libraryFolders {
		g.Go(func() error {
			assets, err := s.store.Search(gctx, q)
			if err != nil {
				return fmt.Errorf("search %s: %w", q.Folder, err)
			}
			results[i] = assets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := slices.Concat(results...)
	slices.SortStableFunc(all, func(a, b domain.MediaAsset) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if all == nil {
		all = []domain.MediaAsset{}
	}
	return all, nil
}

// DeleteAsset removes one asset from the media store.
func (s *MediaService) DeleteAsset(ctx context.Context, assetID string) error {
	if strings.TrimSpace(assetID) == "" {
		return apperrors.Validation("assetId", "is required")
	}
	if err := s.store.Delete(ctx, assetID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "media asset deleted", slog.String("asset_id", assetID))
	return nil
}

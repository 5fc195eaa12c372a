package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// BannerService implements the business logic for promotional banners.
type BannerService struct {
	repo   repository.BannerRepository
	store  storage.Storage
	logger *slog.Logger
	now    func() time.Time
}

// NewBannerService creates a new banner service.
func NewBannerService(repo repository.BannerRepository, store storage.Storage, logger *slog.Logger) *BannerService {
	return &BannerService{
		repo:   repo,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateBannerInput holds a new banner and its image.
type CreateBannerInput struct {
	Type  domain.BannerType
	Link  string
	Image *Attachment
}

// ListActiveBanners returns active banners newest first.
func (s *BannerService) ListActiveBanners(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// CreateBanner uploads the image to the banner folder and stores an active
// banner.
func (s *BannerService) CreateBanner(ctx context.Context, in CreateBannerInput) (*domain.Banner, error) {
	if in.Image == nil || len(in.Image.Data) == 0 {
		return nil, apperrors.Validation("image", "is required")
	}
	if !domain.IsValidBannerType(in.Type) {
		return nil, apperrors.Validation("type", "must be one of: Slider Middle Advertisement")
	}

	img, err := s.store.Upload(ctx, &storage.UploadInput{
		Folder:      domain.FolderBanners,
		Filename:    in.Image.Filename,
		ContentType: in.Image.ContentType,
		Data:        in.Image.Data,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("upload banner image: %w", err))
	}

	b := &domain.Banner{
		ID:        uuid.New().String(),
		Image:     *img,
		Type:      in.Type,
		Link:      strings.TrimSpace(in.Link),
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "banner created",
		slog.String("banner_id", b.ID),
		slog.String("type", string(b.Type)),
	)
	return b, nil
}

// DeleteBanner destroys the banner image, then the record.
func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Image.AssetID != "" {
		if err := s.store.Delete(ctx, b.Image.AssetID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Internal(fmt.Errorf("delete banner image: %w", err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "banner deleted", slog.String("banner_id", id))
	return nil
}

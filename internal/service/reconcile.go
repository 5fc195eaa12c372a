package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// uploadPlan routes the attachments of one write. images keeps request order.
type uploadPlan struct {
	images     []Attachment
	variations map[int]Attachment
}

// planUploads sorts attachments into product and variation images. Indexes
// with no matching variation and unknown fields are rejected before anything
// is uploaded.
func planUploads(attachments []Attachment, variationCount int) (*uploadPlan, error) {
	plan := &uploadPlan{variations: make(map[int]Attachment)}
	for _, a := range attachments {
		if a.Field == FieldImages {
			plan.images = append(plan.images, a)
			continue
		}
		i, ok := variationIndex(a.Field)
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unexpected file field %q", a.Field))
		}
		if i >= variationCount {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s has no matching variation", a.Field))
		}
		plan.variations[i] = a
	}
	return plan, nil
}

// apply uploads every planned attachment concurrently and writes the results
// into p. The first failure cancels the remaining uploads. It returns the
// assets displaced from variation slots.
func (s *ProductService) apply(ctx context.Context, p *domain.Product, plan *uploadPlan) ([]string, error) {
	images := make([]domain.Image, len(plan.images))
	variationImages := make([]*domain.Image, len(p.Variations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.uploadConcurrency)
	for i, a := range plan.images {
		g.Go(func() error {
			img, err := s.upload(gctx, a)
			if err != nil {
				return err
			}
			images[i] = *img
			return nil
		})
	}
	for i, a := range plan.variations {
		g.Go(func() error {
			img, err := s.upload(gctx, a)
			if err != nil {
				return err
			}
			variationImages[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var displaced []string
	for i, img := range variationImages {
		if img == nil {
			continue
		}
		if old := p.Variations[i].Image; old != nil && old.AssetID != "" {
			displaced = append(displaced, old.AssetID)
		}
		p.Variations[i].Image = img
	}
	p.Images = append(p.Images, images...)
	return displaced, nil
}

func (s *ProductService) upload(ctx context.Context, a Attachment) (*domain.Image, error) {
	img, err := s.store.Upload(ctx, &storage.UploadInput{
		Folder:      domain.FolderProducts,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Data:        a.Data,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("upload %s: %w", a.Field, err))
	}
	return img, nil
}

// deleteAsset removes one asset. An asset that is already gone is fine.
func (s *ProductService) deleteAsset(ctx context.Context, assetID string) error {
	if err := s.store.Delete(ctx, assetID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.Internal(fmt.Errorf("delete asset %s: %w", assetID, err))
	}
	return nil
}

// composeProduct copies the input fields onto p, overwriting every mutable
// field. Omitted prices are cleared.
func composeProduct(p *domain.Product, in *ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.SKU = in.SKU
	p.InStock = in.InStock
	p.IsFeatured = in.IsFeatured
	p.Status = in.Status
	p.Category = in.Category
	p.Brand = in.Brand
	p.VendorID = in.VendorID
	p.Tags = in.Tags
	p.ProductType = in.ProductType()

	switch pricing := in.Pricing.(type) {
	case SimplePricing:
		p.Price = pricing.Price
		p.SalePrice = pricing.SalePrice
		p.Variations = []domain.Variation{}
	case VariablePricing:
		p.Price = nil
		p.SalePrice = nil
		if !pricing.KeepExisting {
			p.Variations = slices.Clone(pricing.Variations)
		}
	}
}

// prepare normalizes and validates p, then checks its references.
func (s *ProductService) prepare(ctx context.Context, p *domain.Product) error {
	domain.Normalize(p)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.checkReferences(ctx, p)
}

// CreateProduct validates the input, uploads its attachments and stores the
// new product.
func (s *ProductService) CreateProduct(ctx context.Context, in *ProductInput, attachments []Attachment) (*domain.Product, error) {
	now := s.now().UTC()
	p := &domain.Product{
		ID:        uuid.New().String(),
		Images:    []domain.Image{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	composeProduct(p, in)

	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	plan, err := planUploads(attachments, len(p.Variations))
	if err != nil {
		return nil, err
	}
	if _, err := s.apply(ctx, p, plan); err != nil {
		return nil, err
	}

	domain.Normalize(p)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.String("product_type", string(p.ProductType)),
		slog.Int("images", len(p.Images)),
	)
	if err := s.producer.PublishProductCreated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	s.stats.Invalidate(ctx)
	return p, nil
}

// UpdateProduct overwrites the product from the input, removes the assets in
// imagesToDelete and uploads new attachments. Only ids among the product's own
// images are deleted; anything else in imagesToDelete is ignored. A replaced variation image is
// deleted from the media store.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *ProductInput, attachments []Attachment) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	composeProduct(p, in)
	var removed []string
	p.Images = slices.DeleteFunc(p.Images, func(img domain.Image) bool {
		if slices.Contains(in.ImagesToDelete, img.AssetID) {
			removed = append(removed, img.AssetID)
			return true
		}
		return false
	})
	p.UpdatedAt = s.now().UTC()

	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	plan, err := planUploads(attachments, len(p.Variations))
	if err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		if err := s.store.DeleteMany(ctx, removed); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("delete images: %w", err))
		}
	}
	displaced, err := s.apply(ctx, p, plan)
	if err != nil {
		return nil, err
	}
	for _, assetID := range displaced {
		if err := s.deleteAsset(ctx, assetID); err != nil {
			return nil, err
		}
	}

	domain.Normalize(p)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", p.ID),
		slog.Int("images_deleted", len(removed)),
		slog.Int("attachments", len(attachments)),
	)
	if err := s.producer.PublishProductUpdated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	s.stats.Invalidate(ctx)
	return p, nil
}

// QuickEdit changes only price and stock state. A new image replaces slot 0
// of images, deleting the previous occupant first.
func (s *ProductService) QuickEdit(ctx context.Context, id string, in *QuickEditInput, image *Attachment) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Price != nil {
		p.Price = in.Price
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	p.UpdatedAt = s.now().UTC()

	domain.Normalize(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if image != nil {
		if len(p.Images) > 0 && p.Images[0].AssetID != "" {
			if err := s.deleteAsset(ctx, p.Images[0].AssetID); err != nil {
				return nil, err
			}
		}
		img, err := s.upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		if len(p.Images) > 0 {
			p.Images[0] = *img
		} else {
			p.Images = []domain.Image{*img}
		}
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product quick edited", slog.String("product_id", p.ID))
	if err := s.producer.PublishProductUpdated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	s.stats.Invalidate(ctx)
	return p, nil
}

// DeleteProduct releases every asset of the product in one batch and removes
// the document. Asset cleanup failures are logged, not returned.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if ids := p.AssetIDs(); len(ids) > 0 {
		if err := s.store.DeleteMany(ctx, ids); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete product assets",
				slog.String("product_id", p.ID),
				slog.Int("assets", len(ids)),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.products.Delete(ctx, p.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", p.ID))
	if err := s.producer.PublishProductDeleted(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	s.stats.Invalidate(ctx)
	return nil
}

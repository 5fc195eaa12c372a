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

// PasswordHasher hashes and checks passwords. *auth.Hasher satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// VendorService implements the business logic for vendor shops.
type VendorService struct {
	repo     repository.VendorRepository
	products repository.ProductRepository
	hasher   PasswordHasher
	stats    *StatsInvalidator
	logger   *slog.Logger
	now      func() time.Time
}

// NewVendorService creates a new vendor service.
func NewVendorService(
	repo repository.VendorRepository,
	products repository.ProductRepository,
	hasher PasswordHasher,
	stats *StatsInvalidator,
	logger *slog.Logger,
) *VendorService {
	return &VendorService{
		repo:     repo,
		products: products,
		hasher:   hasher,
		stats:    stats,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateVendorInput holds the fields of an admin-created vendor.
type CreateVendorInput struct {
	Name     string
	ShopName string
	Email    string
	Phone    string
	Address  string
	CNIC     string
	Password string
}

// ListVendors returns vendors newest first.
func (s *VendorService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

// CreateVendor registers an approved vendor.
func (s *VendorService) CreateVendor(ctx context.Context, in CreateVendorInput) (*domain.Vendor, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash vendor password: %w", err)
	}

	now := s.now().UTC()
	v := &domain.Vendor{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:  hash,
		ShopName:      strings.TrimSpace(in.ShopName),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		CNIC:          blankToNil(&in.CNIC),
		AccountStatus: domain.VendorStatusApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "vendor created",
		slog.String("vendor_id", v.ID),
		slog.String("shop_name", v.ShopName),
	)
	s.stats.Invalidate(ctx)
	return v, nil
}

// UpdateVendorStatus changes the account status of a vendor.
func (s *VendorService) UpdateVendorStatus(ctx context.Context, id string, status domain.VendorStatus) (*domain.Vendor, error) {
	if !domain.IsValidVendorStatus(status) {
		return nil, apperrors.Validation("status", "must be one of: Pending Approved Suspended")
	}
	v, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "vendor status changed",
		slog.String("vendor_id", v.ID),
		slog.String("status", string(status)),
	)
	return v, nil
}

// DeleteVendor removes a vendor that owns no products.
func (s *VendorService) DeleteVendor(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.products.CountByVendor(ctx, id)
	if err != nil {
		return fmt.Errorf("count vendor products: %w", err)
	}
	if n > 0 {
		return apperrors.Conflict(fmt.Sprintf("vendor still owns %d products", n))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "vendor deleted", slog.String("vendor_id", id))
	s.stats.Invalidate(ctx)
	return nil
}

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
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// CustomerService implements storefront customer accounts.
type CustomerService struct {
	repo   repository.CustomerRepository
	hasher PasswordHasher
	stats  *StatsInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo repository.CustomerRepository, hasher PasswordHasher, stats *StatsInvalidator, logger *slog.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		hasher: hasher,
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterCustomerInput holds a storefront sign-up.
type RegisterCustomerInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a customer account.
func (s *CustomerService) Register(ctx context.Context, in RegisterCustomerInput) (*domain.Customer, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash customer password: %w", err)
	}

	now := s.now().UTC()
	c := &domain.Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Addresses:    []domain.Address{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "customer registered", slog.String("customer_id", c.ID))
	s.stats.Invalidate(ctx)
	return c, nil
}

// ListCustomers returns one page of customers, newest first.
func (s *CustomerService) ListCustomers(ctx context.Context, params pagination.Params) (pagination.Result[domain.Customer], error) {
	customers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Customer]{}, fmt.Errorf("list customers: %w", err)
	}
	return pagination.NewResult(customers, total, params), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// OrderService implements order administration.
type OrderService struct {
	repo   repository.OrderRepository
	stats  *StatsInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, stats *StatsInvalidator, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

// ListOrders returns one page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params) (pagination.Result[domain.Order], error) {
	orders, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return pagination.NewResult(orders, total, params), nil
}

// GetOrder returns an order with its customer's contact details.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateOrderStatus moves an order to status. Delivered stamps the delivery
// time; any other status clears it.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.Validation("status", "must be one of: Pending Processing Shipped Delivered Cancelled")
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o.SetStatus(status, now)
	o.UpdatedAt = now
	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", o.ID),
		slog.String("status", string(status)),
	)
	s.stats.Invalidate(ctx)
	return o, nil
}

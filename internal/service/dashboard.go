package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
)

// StatsInvalidator drops cached dashboard figures after writes that change
// them. A nil invalidator or cache is a no-op.
type StatsInvalidator struct {
	cache  repository.StatsCache
	logger *slog.Logger
}

// NewStatsInvalidator creates an invalidator for cache.
func NewStatsInvalidator(cache repository.StatsCache, logger *slog.Logger) *StatsInvalidator {
	return &StatsInvalidator{cache: cache, logger: logger}
}

// Invalidate drops the cached stats. Failures only cost freshness until the
// entry expires, so they are logged.
func (i *StatsInvalidator) Invalidate(ctx context.Context) {
	if i == nil || i.cache == nil {
		return
	}
	if err := i.cache.Invalidate(ctx); err != nil {
		i.logger.WarnContext(ctx, "failed to invalidate dashboard stats",
			slog.String("error", err.Error()),
		)
	}
}

// DashboardService serves the admin landing page figures.
type DashboardService struct {
	stats  repository.StatsRepository
	cache  repository.StatsCache
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(stats repository.StatsRepository, cache repository.StatsCache, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		stats:  stats,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Stats returns cached figures when present, computing and caching them
// otherwise. Cache errors fall through to the store.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard stats cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.stats.DashboardStats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("compute dashboard stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.WarnContext(ctx, "dashboard stats cache write failed", slog.String("error", err.Error()))
		}
	}
	return stats, nil
}

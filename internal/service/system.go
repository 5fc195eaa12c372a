package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// Seed administrator credentials.
const (
	SeedAdminName     = "Main Admin"
	SeedAdminEmail    = "admin@hadeedcart.com"
	DefaultSeedPasswd = "123456"
)

// SystemService implements whole-store maintenance.
type SystemService struct {
	repo         repository.SystemRepository
	employees    repository.EmployeeRepository
	hasher       PasswordHasher
	stats        *StatsInvalidator
	logger       *slog.Logger
	seedPassword string
	now          func() time.Time
}

// NewSystemService creates a new system service. An empty seedPassword
// falls back to DefaultSeedPasswd.
func NewSystemService(
	repo repository.SystemRepository,
	employees repository.EmployeeRepository,
	hasher PasswordHasher,
	stats *StatsInvalidator,
	logger *slog.Logger,
	seedPassword string,
) *SystemService {
	if seedPassword == "" {
		seedPassword = DefaultSeedPasswd
	}
	return &SystemService{
		repo:         repo,
		employees:    employees,
		hasher:       hasher,
		stats:        stats,
		logger:       logger,
		seedPassword: seedPassword,
		now:          time.Now,
	}
}

// SeedResult reports the administrator created by Seed.
type SeedResult struct {
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

// FactoryReset deletes all store data except Admin employees. The caller must
// be an Admin and confirm with their password.
func (s *SystemService) FactoryReset(ctx context.Context, employeeID, password string) (repository.ResetCounts, error) {
	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can reset the store")
	}
	if err := s.confirm(e, password); err != nil {
		return nil, err
	}

	counts, err := s.repo.FactoryReset(ctx)
	if err != nil {
		return nil, fmt.Errorf("factory reset: %w", err)
	}

	attrs := []any{slog.String("employee_id", e.ID)}
	for name, n := range counts {
		attrs = append(attrs, slog.Int64(name, n))
	}
	s.logger.WarnContext(ctx, "factory reset completed", attrs...)
	s.stats.Invalidate(ctx)
	return counts, nil
}

func (s *SystemService) confirm(e *domain.Employee, password string) error {
	if password == "" {
		return apperrors.Validation("password", "is required")
	}
	ok, err := s.hasher.Compare(e.PasswordHash, password)
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return apperrors.InvalidInput("incorrect password")
	}
	return nil
}

// Seed wipes the store and creates the default administrator with every
// permission.
func (s *SystemService) Seed(ctx context.Context) (*SeedResult, error) {
	hash, err := s.hasher.Hash(s.seedPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	now := s.now().UTC()
	admin := &domain.Employee{
		ID:           uuid.New().String(),
		Name:         SeedAdminName,
		Email:        SeedAdminEmail,
		PasswordHash: hash,
		Permissions:  domain.AllPermissions(),
		Role:         domain.RoleAdmin,
		Status:       domain.EmployeeStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Wipe(ctx, admin); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	s.logger.WarnContext(ctx, "store seeded", slog.String("admin_email", admin.Email))
	s.stats.Invalidate(ctx)
	return &SeedResult{AdminEmail: admin.Email, AdminPassword: s.seedPassword}, nil
}

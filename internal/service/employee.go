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
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// TokenIssuer signs access tokens. *auth.JWTManager satisfies it.
type TokenIssuer interface {
	Generate(e *domain.Employee) (string, error)
}

// EmployeeService implements employee management and sign-in.
type EmployeeService struct {
	repo   repository.EmployeeRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
	now    func() time.Time
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(repo repository.EmployeeRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// CreateEmployeeInput holds the fields of a new employee.
type CreateEmployeeInput struct {
	Name        string
	Email       string
	Password    string
	Permissions []domain.Permission
	Role        domain.Role
}

// UpdateProfileInput changes the signed-in employee's name and email. The
// current password confirms the change.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// Login checks credentials and returns a signed token. Unknown emails,
// wrong passwords and suspended accounts all answer "invalid credentials".
func (s *EmployeeService) Login(ctx context.Context, email, password string) (string, *domain.Employee, error) {
	invalid := apperrors.Unauthorized("invalid credentials")

	e, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, invalid
		}
		return "", nil, err
	}
	ok, err := s.hasher.Compare(e.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok || e.Status == domain.EmployeeStatusSuspended {
		s.logger.WarnContext(ctx, "login rejected",
			slog.String("employee_id", e.ID),
			slog.Bool("suspended", e.Status == domain.EmployeeStatusSuspended),
		)
		return "", nil, invalid
	}

	token, err := s.tokens.Generate(e)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	s.logger.InfoContext(ctx, "employee signed in", slog.String("employee_id", e.ID))
	return token, e, nil
}

// ListEmployees returns every employee.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// CreateEmployee stores an active employee with at least one permission.
func (s *EmployeeService) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*domain.Employee, error) {
	if len(in.Permissions) == 0 {
		return nil, apperrors.Validation("permissions", "must contain at least one permission")
	}
	for _, p := range in.Permissions {
		if !domain.IsValidPermission(p) {
			return nil, apperrors.Validation("permissions", fmt.Sprintf("unknown permission %q", p))
		}
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if role != domain.RoleAdmin && role != domain.RoleEmployee {
		return nil, apperrors.Validation("role", "must be one of: Admin Employee")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash employee password: %w", err)
	}

	now := s.now().UTC()
	e := &domain.Employee{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Permissions:  in.Permissions,
		Role:         role,
		Status:       domain.EmployeeStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee created",
		slog.String("employee_id", e.ID),
		slog.String("role", string(e.Role)),
	)
	return e, nil
}

// UpdateProfile changes the name and email of employee id after checking
// the current password.
func (s *EmployeeService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.confirmPassword(e, in.Password, "current password is incorrect"); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email != e.Email {
		other, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, apperrors.AlreadyExists("employee", "email", email)
		}
	}

	e.Name = strings.TrimSpace(in.Name)
	e.Email = email
	e.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ChangePassword replaces the password of employee id.
func (s *EmployeeService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.confirmPassword(e, oldPassword, "old password is incorrect"); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash employee password: %w", err)
	}
	e.PasswordHash = hash
	e.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "employee password changed", slog.String("employee_id", e.ID))
	return nil
}

// SetStatus suspends or re-activates an employee.
func (s *EmployeeService) SetStatus(ctx context.Context, id string, status domain.EmployeeStatus) (*domain.Employee, error) {
	if status != domain.EmployeeStatusActive && status != domain.EmployeeStatusSuspended {
		return nil, apperrors.Validation("status", "must be one of: Active Suspended")
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Status = status
	e.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee status changed",
		slog.String("employee_id", e.ID),
		slog.String("status", string(status)),
	)
	return e, nil
}

// DeleteEmployee removes an employee.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "employee deleted", slog.String("employee_id", id))
	return nil
}

func (s *EmployeeService) confirmPassword(e *domain.Employee, password, msg string) error {
	ok, err := s.hasher.Compare(e.PasswordHash, password)
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return apperrors.InvalidInput(msg)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

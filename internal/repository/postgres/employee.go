package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

const employeeColumns = `id::text, name, email, password_hash, permissions, role, status, created_at, updated_at`

// EmployeeRepository implements repository.EmployeeRepository using PostgreSQL.
type EmployeeRepository struct {
	db database.DBTX
}

// NewEmployeeRepository creates a new PostgreSQL-backed employee repository.
func NewEmployeeRepository(db database.DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

func permissionStrings(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	return insertEmployee(ctx, r.db, e)
}

func insertEmployee(ctx context.Context, db database.DBTX, e *domain.Employee) error {
	_, err := db.Exec(ctx, `
		INSERT INTO employees (id, name, email, password_hash, permissions, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Name, e.Email, e.PasswordHash, permissionStrings(e.Permissions),
		string(e.Role), string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "employees_email_key") {
			return apperrors.AlreadyExists("employee", "email", e.Email)
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by its ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("employee", id)
	}
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves an employee by email.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.get(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *EmployeeRepository) get(ctx context.Context, where, arg string) (*domain.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("employee", arg)
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// List returns employees newest first.
func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee row: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee rows: %w", err)
	}
	return employees, nil
}

// Update writes every mutable employee field.
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	if !validID(e.ID) {
		return apperrors.NotFound("employee", e.ID)
	}
	ct, err := r.db.Exec(ctx, `
		UPDATE employees
		SET name = $2, email = $3, password_hash = $4, permissions = $5, role = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		e.ID, e.Name, e.Email, e.PasswordHash, permissionStrings(e.Permissions),
		string(e.Role), string(e.Status), e.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "employees_email_key") {
			return apperrors.AlreadyExists("employee", "email", e.Email)
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("employee", e.ID)
	}
	return nil
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("employee", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("employee", id)
	}
	return nil
}

func scanEmployee(row scanner) (*domain.Employee, error) {
	var (
		e            domain.Employee
		perms        []string
		role, status string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &perms, &role, &status,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Role = domain.Role(role)
	e.Status = domain.EmployeeStatus(status)
	e.Permissions = make([]domain.Permission, len(perms))
	for i, p := range perms {
		e.Permissions[i] = domain.Permission(p)
	}
	return &e, nil
}

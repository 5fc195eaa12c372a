package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

// BrandRepository implements repository.BrandRepository using PostgreSQL.
type BrandRepository struct {
	db database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(db database.DBTX) *BrandRepository {
	return &BrandRepository{db: db}
}

var _ repository.BrandRepository = (*BrandRepository)(nil)

// Create inserts a new brand.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO brands (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		b.ID, b.Name, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "brands_name_key") {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID retrieves a brand by its ID.
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("brand", id)
	}
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByName retrieves a brand by case-insensitive name.
func (r *BrandRepository) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	return r.get(ctx, `WHERE lower(name) = lower($1)`, name)
}

func (r *BrandRepository) get(ctx context.Context, where, arg string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.db.QueryRow(ctx, `SELECT id::text, name, created_at, updated_at FROM brands `+where, arg).
		Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("brand", arg)
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// List returns all brands sorted by name.
func (r *BrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, name, created_at, updated_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}
	return brands, nil
}

// Update renames a brand.
func (r *BrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	if !validID(b.ID) {
		return apperrors.NotFound("brand", b.ID)
	}
	ct, err := r.db.Exec(ctx, `UPDATE brands SET name = $2, updated_at = $3 WHERE id = $1`, b.ID, b.Name, b.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "brands_name_key") {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", b.ID)
	}
	return nil
}

// Delete removes a brand. Products still pointing at it block the delete.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("brand", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Conflict("brand is still used by products")
		}
		return fmt.Errorf("delete brand: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", id)
	}
	return nil
}

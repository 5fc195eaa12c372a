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

const categoryColumns = `id::text, name, parent_id::text, image, created_at, updated_at`

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	image, err := imageJSON("category image", c.Image)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO categories (id, name, parent_id, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Parent, image, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapCategoryWriteError(err, c)
	}
	return nil
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("category", id)
	}
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByName retrieves a category by case-insensitive name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", name)
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// List returns all categories sorted by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

// Update writes name, parent and image.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if !validID(c.ID) {
		return apperrors.NotFound("category", c.ID)
	}
	image, err := imageJSON("category image", c.Image)
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $2, parent_id = $3, image = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.Name, c.Parent, image, c.UpdatedAt,
	)
	if err != nil {
		return mapCategoryWriteError(err, c)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}
	return nil
}

// Delete removes a category. Products still pointing at it block the delete.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("category", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Conflict("category is still referenced by products or subcategories")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

// CountChildren returns how many categories name id as their parent.
func (r *CategoryRepository) CountChildren(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, nil
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM categories WHERE parent_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}

func mapCategoryWriteError(err error, c *domain.Category) error {
	switch {
	case database.IsUniqueViolation(err, "categories_name_key"):
		return apperrors.AlreadyExists("category", "name", c.Name)
	case database.IsForeignKeyViolation(err) && c.Parent != nil:
		return apperrors.NotFound("parent category", *c.Parent)
	default:
		return fmt.Errorf("write category: %w", err)
	}
}

func scanCategory(row scanner) (*domain.Category, error) {
	var (
		c     domain.Category
		image []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Parent, &image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON("category image", image, &c.Image); err != nil {
		return nil, err
	}
	return &c, nil
}

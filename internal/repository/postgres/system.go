package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

// resetOrder lists tables child first so foreign keys never block a delete.
var resetOrder = []struct {
	name  string
	query string
}{
	{"orders", `DELETE FROM orders`},
	{"products", `DELETE FROM products`},
	{"banners", `DELETE FROM banners`},
	{"categories", `DELETE FROM categories`},
	{"brands", `DELETE FROM brands`},
	{"vendors", `DELETE FROM vendors`},
	{"customers", `DELETE FROM customers`},
}

// SystemRepository implements repository.SystemRepository using PostgreSQL.
type SystemRepository struct {
	db database.DBTX
}

// NewSystemRepository creates a new PostgreSQL-backed system repository.
func NewSystemRepository(db database.DBTX) *SystemRepository {
	return &SystemRepository{db: db}
}

var _ repository.SystemRepository = (*SystemRepository)(nil)

// FactoryReset deletes all store data and every non-Admin employee.
func (r *SystemRepository) FactoryReset(ctx context.Context) (repository.ResetCounts, error) {
	counts := repository.ResetCounts{}
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := deleteAll(ctx, tx, counts); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM employees WHERE role <> $1`, string(domain.RoleAdmin))
		if err != nil {
			return fmt.Errorf("delete employees: %w", err)
		}
		counts["employees"] = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Wipe empties every table including employees, then inserts admin.
func (r *SystemRepository) Wipe(ctx context.Context, admin *domain.Employee) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := deleteAll(ctx, tx, repository.ResetCounts{}); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM employees`); err != nil {
			return fmt.Errorf("delete employees: %w", err)
		}
		return insertEmployee(ctx, tx, admin)
	})
}

func deleteAll(ctx context.Context, tx pgx.Tx, counts repository.ResetCounts) error {
	for _, t := range resetOrder {
		ct, err := tx.Exec(ctx, t.query)
		if err != nil {
			return fmt.Errorf("delete %s: %w", t.name, err)
		}
		counts[t.name] = ct.RowsAffected()
	}
	return nil
}

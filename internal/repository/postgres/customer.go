package postgres

import (
	"context"
	"fmt"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	db database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	addresses, err := marshalJSON("addresses", c.Addresses)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, password_hash, phone, addresses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Email, c.PasswordHash, c.Phone, addresses, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "customers_email_key") {
			return apperrors.AlreadyExists("user", "email", c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// List returns customers newest first.
func (r *CustomerRepository) List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, email, phone, addresses, created_at, updated_at, count(*) OVER()
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	total := 0
	for rows.Next() {
		var (
			c         domain.Customer
			addresses []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &addresses, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan customer row: %w", err)
		}
		if err := unmarshalJSON("addresses", addresses, &c.Addresses); err != nil {
			return nil, 0, err
		}
		if c.Addresses == nil {
			c.Addresses = []domain.Address{}
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, total, nil
}

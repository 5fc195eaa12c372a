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
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

const orderSelect = `
	SELECT o.id::text, COALESCE(o.user_id::text, ''), COALESCE(c.name, ''), COALESCE(c.email, ''),
	       COALESCE(c.phone, ''), o.items, o.shipping_address, o.payment_method, o.total_price,
	       o.order_status, o.is_delivered, o.delivered_at, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN customers c ON c.id = o.user_id`

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// List returns orders newest first with the customer summary.
func (r *OrderRepository) List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error) {
	query := `
	SELECT o.id::text, COALESCE(o.user_id::text, ''), COALESCE(c.name, ''), COALESCE(c.email, ''),
	       COALESCE(c.phone, ''), o.items, o.shipping_address, o.payment_method, o.total_price,
	       o.order_status, o.is_delivered, o.delivered_at, o.created_at, o.updated_at, count(*) OVER()
	FROM orders o
	LEFT JOIN customers c ON c.id = o.user_id
	ORDER BY o.created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	total := 0
	for rows.Next() {
		o, err := scanOrder(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		// Listings show name and email only.
		o.User.Phone = ""
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, total, nil
}

// GetByID retrieves an order with the customer's name, email and phone.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("order", id)
	}
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateStatus persists the fulfilment fields of the order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *domain.Order) error {
	if !validID(o.ID) {
		return apperrors.NotFound("order", o.ID)
	}
	ct, err := r.db.Exec(ctx, `
		UPDATE orders SET order_status = $2, is_delivered = $3, delivered_at = $4, updated_at = $5
		WHERE id = $1`,
		o.ID, string(o.OrderStatus), o.IsDelivered, o.DeliveredAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", o.ID)
	}
	return nil
}

func scanOrder(row scanner, extra ...any) (*domain.Order, error) {
	var (
		o               domain.Order
		items, shipping []byte
		status          string
	)
	dest := []any{
		&o.ID, &o.User.ID, &o.User.Name, &o.User.Email, &o.User.Phone, &items, &shipping,
		&o.PaymentMethod, &o.TotalPrice, &status, &o.IsDelivered, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	o.OrderStatus = domain.OrderStatus(status)
	if err := unmarshalJSON("order items", items, &o.Items); err != nil {
		return nil, err
	}
	if err := unmarshalJSON("shipping address", shipping, &o.ShippingAddress); err != nil {
		return nil, err
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}

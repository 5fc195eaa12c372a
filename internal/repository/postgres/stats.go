package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

const recentOrderLimit = 5

// StatsRepository implements repository.StatsRepository using PostgreSQL.
type StatsRepository struct {
	db database.DBTX
}

// NewStatsRepository creates a new PostgreSQL-backed stats repository.
func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

var _ repository.StatsRepository = (*StatsRepository)(nil)

// DashboardStats aggregates the admin landing page figures as of now.
func (r *StatsRepository) DashboardStats(ctx context.Context, now time.Time) (_ *domain.DashboardStats, err error) {
	ctx, end := database.TraceQuery(ctx, "stats.Dashboard", "dashboard aggregates")
	defer func() { end(err) }()

	var s domain.DashboardStats
	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM vendors),
			(SELECT count(*) FROM customers),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM brands),
			(SELECT count(*) FROM categories),
			(SELECT count(*) FROM products WHERE NOT in_stock),
			(SELECT COALESCE(sum(total_price), 0) FROM orders WHERE order_status = 'Delivered')`,
	).Scan(
		&s.TotalProducts, &s.TotalVendors, &s.TotalCustomers, &s.TotalOrders,
		&s.TotalBrands, &s.TotalCategories, &s.ProductsOutOfStock, &s.TotalEarnings,
	)
	if err != nil {
		return nil, fmt.Errorf("count dashboard totals: %w", err)
	}

	if s.SalesChartData, err = r.salesChart(ctx, now); err != nil {
		return nil, err
	}
	if s.RecentOrders, err = r.recentOrders(ctx); err != nil {
		return nil, err
	}
	if s.ProductsByVendor, err = r.productsByVendor(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatsRepository) salesChart(ctx context.Context, now time.Time) ([]domain.DailySales, error) {
	since := now.UTC().AddDate(0, 0, -(domain.SalesChartDays - 1)).Truncate(24 * time.Hour)
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, sum(total_price)
		FROM orders
		WHERE order_status = 'Delivered' AND created_at >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("query sales chart: %w", err)
	}
	defer rows.Close()

	sales := make(map[string]float64)
	for rows.Next() {
		var (
			day   string
			total float64
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		sales[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales rows: %w", err)
	}
	return domain.BuildSalesChart(now, sales), nil
}

func (r *StatsRepository) recentOrders(ctx context.Context) ([]domain.RecentOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id::text, COALESCE(c.name, ''), o.total_price, o.order_status, o.created_at
		FROM orders o
		LEFT JOIN customers c ON c.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1`, recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.RecentOrder{}
	for rows.Next() {
		var (
			o      domain.RecentOrder
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserName, &o.TotalPrice, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent order: %w", err)
		}
		o.OrderStatus = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent orders: %w", err)
	}
	return orders, nil
}

func (r *StatsRepository) productsByVendor(ctx context.Context) ([]domain.VendorProductCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.shop_name, count(p.id)
		FROM products p
		JOIN vendors v ON v.id = p.vendor_id
		GROUP BY v.shop_name
		ORDER BY count(p.id) DESC, v.shop_name`)
	if err != nil {
		return nil, fmt.Errorf("query products by vendor: %w", err)
	}
	defer rows.Close()

	counts := []domain.VendorProductCount{}
	for rows.Next() {
		var c domain.VendorProductCount
		if err := rows.Scan(&c.VendorName, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan vendor count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor counts: %w", err)
	}
	return counts, nil
}

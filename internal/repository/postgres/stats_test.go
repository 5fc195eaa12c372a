package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
)

func TestStatsRepository_DashboardStats(t *testing.T) {
	mock := newMock(t)
	repo := NewStatsRepository(mock)
	now := time.Date(2026, 5, 7, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT\s+\(SELECT count\(\*\) FROM products\)`).
		WillReturnRows(pgxmock.NewRows([]string{"p", "v", "c", "o", "b", "cat", "oos", "earn"}).
			AddRow(12, 3, 40, 25, 5, 9, 2, 98000.5))
	mock.ExpectQuery("to_char").
		WithArgs(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"day", "sum"}).
			AddRow("2026-05-02", 1500.0).
			AddRow("2026-05-07", 700.0))
	mock.ExpectQuery("ORDER BY o.created_at DESC").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "total", "status", "created"}).
			AddRow(orderID, "Sara", 700.0, "Delivered", now))
	mock.ExpectQuery("GROUP BY v.shop_name").
		WillReturnRows(pgxmock.NewRows([]string{"shop", "count"}).
			AddRow("Ali Hardware", 8).
			AddRow("Bilal Paints", 4))

	s, err := repo.DashboardStats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 12, s.TotalProducts)
	assert.Equal(t, 40, s.TotalCustomers)
	assert.Equal(t, 2, s.ProductsOutOfStock)
	assert.Equal(t, 98000.5, s.TotalEarnings)

	require.Len(t, s.SalesChartData, domain.SalesChartDays)
	assert.Equal(t, domain.DailySales{Date: "2026-05-01", Sales: 0}, s.SalesChartData[0])
	assert.Equal(t, 1500.0, s.SalesChartData[1].Sales)
	assert.Equal(t, 700.0, s.SalesChartData[6].Sales)

	require.Len(t, s.RecentOrders, 1)
	assert.Equal(t, domain.OrderStatusDelivered, s.RecentOrders[0].OrderStatus)
	assert.Equal(t, "Sara", s.RecentOrders[0].UserName)

	assert.Equal(t, []domain.VendorProductCount{
		{VendorName: "Ali Hardware", ProductCount: 8},
		{VendorName: "Bilal Paints", ProductCount: 4},
	}, s.ProductsByVendor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_DashboardStats_CountError(t *testing.T) {
	mock := newMock(t)
	repo := NewStatsRepository(mock)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("timeout"))

	_, err := repo.DashboardStats(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count dashboard totals")
}

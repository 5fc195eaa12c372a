package domain

import "time"

// DailySales is the delivered revenue of one calendar day.
type DailySales struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Sales float64 `json:"dailySales"`
}

// VendorProductCount is the number of products a vendor shop lists.
type VendorProductCount struct {
	VendorName   string `json:"vendorName"`
	ProductCount int    `json:"productCount"`
}

// RecentOrder is the summary row shown on the dashboard.
type RecentOrder struct {
	ID          string      `json:"id"`
	UserName    string      `json:"userName"`
	TotalPrice  float64     `json:"totalPrice"`
	OrderStatus OrderStatus `json:"orderStatus"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// DashboardStats aggregates the admin landing page figures.
type DashboardStats struct {
	TotalProducts      int                  `json:"totalProducts"`
	TotalVendors       int                  `json:"totalVendors"`
	TotalCustomers     int                  `json:"totalCustomers"`
	TotalOrders        int                  `json:"totalOrders"`
	TotalBrands        int                  `json:"totalBrands"`
	TotalCategories    int                  `json:"totalCategories"`
	ProductsOutOfStock int                  `json:"productsOutOfStock"`
	TotalEarnings      float64              `json:"totalEarnings"`
	SalesChartData     []DailySales         `json:"salesChartData"`
	RecentOrders       []RecentOrder        `json:"recentOrders"`
	ProductsByVendor   []VendorProductCount `json:"productsByVendor"`
}

// SalesChartDays is the length of the dashboard sales chart window.
const SalesChartDays = 7

// BuildSalesChart lays sales out over the SalesChartDays calendar days ending
// on now, oldest first. Days missing from sales get a zero bucket.
func BuildSalesChart(now time.Time, sales map[string]float64) []DailySales {
	chart := make([]DailySales, 0, SalesChartDays)
	start := now.UTC().AddDate(0, 0, -(SalesChartDays - 1))
	for i := 0; i < SalesChartDays; i++ {
		day := start.AddDate(0, 0, i).Format(time.DateOnly)
		chart = append(chart, DailySales{Date: day, Sales: sales[day]})
	}
	return chart
}

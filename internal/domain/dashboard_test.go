package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildSalesChart(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	chart := BuildSalesChart(now, map[string]float64{"2026-03-10": 500, "2026-03-04": 120, "2026-03-01": 999})

	assert.Len(t, chart, SalesChartDays)
	assert.Equal(t, DailySales{Date: "2026-03-04", Sales: 120}, chart[0])
	assert.Equal(t, DailySales{Date: "2026-03-10", Sales: 500}, chart[6])
	assert.Equal(t, 0.0, chart[3].Sales)
}

package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest_Defaults(t *testing.T) {
	p := FromRequest(httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	p := FromRequest(httptest.NewRequest(http.MethodGet, "/api/products?page=3&limit=25", nil))

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"page=abc&limit=xyz", 1, DefaultLimit},
		{"page=-2&limit=0", 1, DefaultLimit},
		{"limit=1000", 1, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestNewResult_TotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
	}
	for _, tt := range tests {
		r := NewResult([]int{}, tt.total, New(1, tt.limit))
		assert.Equal(t, tt.want, r.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestNewResult_EncodesEnvelope(t *testing.T) {
	r := NewResult[string](nil, 12, New(2, 10))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"totalPages":2,"currentPage":2,"totalCount":12}`, string(b))
}

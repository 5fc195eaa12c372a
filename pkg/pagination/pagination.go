package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{Page: 1, Limit: DefaultLimit}
}

// New builds Params from raw values, falling back to defaults for
// non-positive input and capping the limit.
func New(page, limit int) Params {
	p := DefaultParams()
	if page > 0 {
		p.Page = page
	}
	if limit > 0 {
		p.Limit = min(limit, MaxLimit)
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// FromRequest extracts ?page= and ?limit= from an HTTP request.
// Unparseable values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return New(page, limit)
}

// Result is the list envelope returned by paginated endpoints.
type Result[T any] struct {
	Items       []T `json:"items"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	TotalCount  int `json:"totalCount"`
}

// NewResult creates a paginated result. Items is never nil so it encodes as [].
func NewResult[T any](items []T, totalCount int, params Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	totalPages := totalCount / limit
	if totalCount%limit > 0 {
		totalPages++
	}

	return Result[T]{
		Items:       items,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		TotalCount:  totalCount,
	}
}

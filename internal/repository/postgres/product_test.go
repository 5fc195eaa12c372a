package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

const (
	productID  = "0b6f2a52-7c1e-4d59-9a4b-1f3c2d4e5a60"
	categoryID = "5d1b8c9e-2f3a-4b6c-8d7e-9f0a1b2c3d4e"
	brandID    = "7e2c9d0f-3a4b-4c5d-9e6f-0a1b2c3d4e5f"
	vendorID   = "9f3d0e1a-4b5c-4d6e-8f70-1a2b3c4d5e6f"
	orderID    = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

var testTime = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

var productColumnNames = []string{
	"id", "name", "description", "product_type", "price", "sale_price",
	"price_min", "price_max", "sku", "in_stock", "images",
	"category_id", "brand_id", "vendor_id", "is_featured", "tags",
	"status", "variations", "created_at", "updated_at",
	"category_name", "brand_name", "vendor_name",
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:          productID,
		Name:        "Claw Hammer",
		Description: "Forged steel",
		ProductType: domain.ProductTypeSimple,
		Price:       f64(1500),
		SalePrice:   f64(1200),
		PriceRange:  domain.PriceRange{Min: 1200, Max: 1200},
		SKU:         str("HAM-01"),
		InStock:     true,
		Images:      []domain.Image{{AssetID: "hadeedcart_products/a1", URL: "https://cdn/a1.jpg"}},
		Category:    categoryID,
		Brand:       brandID,
		VendorID:    vendorID,
		Tags:        []string{"tools"},
		Status:      domain.ProductStatusPublished,
		Variations:  []domain.Variation{},
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func productRow(p *domain.Product, extra ...any) []any {
	row := []any{
		p.ID, p.Name, p.Description, string(p.ProductType), p.Price, p.SalePrice,
		p.PriceRange.Min, p.PriceRange.Max, p.SKU, p.InStock,
		[]byte(`[{"assetId":"hadeedcart_products/a1","url":"https://cdn/a1.jpg"}]`),
		p.Category, p.Brand, p.VendorID, p.IsFeatured, p.Tags,
		string(p.Status), []byte(`[]`), p.CreatedAt, p.UpdatedAt,
		"Hammers", "Stanley", "Ali Hardware",
	}
	return append(row, extra...)
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(20)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), sampleProduct()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_DuplicateSKU(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(20)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	err := repo.Create(context.Background(), sampleProduct())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "HAM-01")
}

func TestProductRepository_Create_MissingReference(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(20)...).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), sampleProduct())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	want := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(productID).
		WillReturnRows(pgxmock.NewRows(productColumnNames).AddRow(productRow(want)...))

	got, err := repo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, "Claw Hammer", got.Name)
	assert.Equal(t, domain.ProductTypeSimple, got.ProductType)
	assert.Equal(t, 1200.0, *got.SalePrice)
	assert.Equal(t, want.Images, got.Images)
	assert.Empty(t, got.Variations)
	assert.NotNil(t, got.Variations)
	assert.Equal(t, "Hammers", got.CategoryName)
	assert.Equal(t, "Ali Hardware", got.VendorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(productID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), productID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_GetByID_MalformedID(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductRepository_List_WithFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	inStock := true

	filter := repository.ProductFilter{
		Search:   "hammer",
		Category: categoryID,
		Status:   "Published",
		InStock:  &inStock,
		Params:   pagination.Params{Page: 2, Limit: 10, Offset: 10},
	}

	cols := append(append([]string{}, productColumnNames...), "total_count")
	mock.ExpectQuery(`WHERE .+plainto_tsquery.+ AND p.category_id = \$3 AND p.status = \$4 AND p.in_stock = \$5 ORDER BY p.created_at DESC LIMIT \$6 OFFSET \$7`).
		WithArgs("hammer", "%hammer%", categoryID, "Published", true, 10, 10).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(productRow(sampleProduct(), 11)...))

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_MalformedCategoryIsEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Category: "bogus",
		Params:   pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, _, err := repo.List(context.Background(), repository.ProductFilter{Params: pagination.Params{Page: 1, Limit: 10}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestProductRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)
	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(anyArgs(19)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("UPDATE products").
		WithArgs(anyArgs(19)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), sampleProduct())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs(productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM products").
		WithArgs(productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), productID))
	assert.ErrorIs(t, repo.Delete(context.Background(), productID), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_CountByVendor(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT count").
		WithArgs(vendorID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

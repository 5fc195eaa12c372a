package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

const productSelect = `
	SELECT p.id::text, p.name, p.description, p.product_type, p.price, p.sale_price,
	       p.price_min, p.price_max, p.sku, p.in_stock, p.images,
	       p.category_id::text, p.brand_id::text, p.vendor_id::text, p.is_featured, p.tags,
	       p.status, p.variations, p.created_at, p.updated_at,
	       COALESCE(c.name, ''), COALESCE(b.name, ''), COALESCE(v.shop_name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id
	LEFT JOIN vendors v ON v.id = p.vendor_id`

// searchVector indexes name, description and tags for full-text search.
const searchVector = `to_tsvector('simple', concat_ws(' ', $2::text, $3::text, array_to_string($16::text[], ' ')))`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func productArgs(p *domain.Product) ([]any, error) {
	images, err := marshalJSON("images", p.Images)
	if err != nil {
		return nil, err
	}
	variations, err := marshalJSON("variations", p.Variations)
	if err != nil {
		return nil, err
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{
		p.ID,                  // $1
		p.Name,                // $2
		p.Description,         // $3
		string(p.ProductType), // $4
		p.Price,               // $5
		p.SalePrice,           // $6
		p.PriceRange.Min,      // $7
		p.PriceRange.Max,      // $8
		p.SKU,                 // $9
		p.InStock,             // $10
		images,                // $11
		p.Category,            // $12
		p.Brand,               // $13
		p.VendorID,            // $14
		p.IsFeatured,          // $15
		tags,                  // $16
		string(p.Status),      // $17
		variations,            // $18
		p.CreatedAt,           // $19
		p.UpdatedAt,           // $20
	}, nil
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, product_type, price, sale_price,
			price_min, price_max, sku, in_stock, images, category_id, brand_id, vendor_id,
			is_featured, tags, status, variations, created_at, updated_at, search_vector)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, ` + searchVector + `)`

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return mapProductWriteError(err, p)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (_ *domain.Product, err error) {
	if !validID(id) {
		return nil, apperrors.NotFound("product", id)
	}

	query := productSelect + ` WHERE p.id = $1`
	ctx, end := database.TraceQuery(ctx, "products.GetByID", query)
	defer func() { end(err) }()

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns products matching the filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) (_ []domain.Product, _ int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if s := strings.TrimSpace(filter.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.search_vector @@ plainto_tsquery('simple', $%d) OR p.name ILIKE $%d)", argIndex, argIndex+1))
		args = append(args, s, "%"+s+"%")
		argIndex += 2
	}
	if filter.Category != "" {
		if !validID(filter.Category) {
			return []domain.Product{}, 0, nil
		}
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}
	if filter.Vendor != "" {
		if !validID(filter.Vendor) {
			return []domain.Product{}, 0, nil
		}
		conditions = append(conditions, fmt.Sprintf("p.vendor_id = $%d", argIndex))
		args = append(args, filter.Vendor)
		argIndex++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.InStock != nil {
		conditions = append(conditions, fmt.Sprintf("p.in_stock = $%d", argIndex))
		args = append(args, *filter.InStock)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() returns the total alongside the page in one round trip.
	query := strings.Replace(productSelect, "COALESCE(v.shop_name, '')",
		"COALESCE(v.shop_name, ''), count(*) OVER()", 1) +
		whereClause +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	ctx, end := database.TraceQuery(ctx, "products.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	total := 0
	for rows.Next() {
		p, err := scanProduct(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// ListAll returns every product, newest first.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// Update overwrites every mutable field of the product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if !validID(p.ID) {
		return apperrors.NotFound("product", p.ID)
	}
	args, err := productArgs(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, product_type = $4, price = $5, sale_price = $6,
		    price_min = $7, price_max = $8, sku = $9, in_stock = $10, images = $11,
		    category_id = $12, brand_id = $13, vendor_id = $14, is_featured = $15, tags = $16,
		    status = $17, variations = $18, updated_at = $19, search_vector = ` + searchVector + `
		WHERE id = $1`

	// created_at ($19 on insert) is immutable; updated_at takes its slot.
	args = append(args[:18:18], p.UpdatedAt)

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapProductWriteError(err, p)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("product", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// CountByVendor returns how many products the vendor owns.
func (r *ProductRepository) CountByVendor(ctx context.Context, vendorID string) (int, error) {
	if !validID(vendorID) {
		return 0, nil
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products WHERE vendor_id = $1`, vendorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vendor products: %w", err)
	}
	return n, nil
}

func mapProductWriteError(err error, p *domain.Product) error {
	switch {
	case database.IsUniqueViolation(err, "products_sku_key"):
		sku := ""
		if p.SKU != nil {
			sku = *p.SKU
		}
		return apperrors.AlreadyExists("product", "sku", sku)
	case database.IsForeignKeyViolation(err):
		return apperrors.InvalidInput("product references a category, brand or vendor that does not exist")
	default:
		return fmt.Errorf("write product: %w", err)
	}
}

// scanProduct reads one row of productSelect. extra receives any trailing
// columns, such as a window count.
func scanProduct(row scanner, extra ...any) (*domain.Product, error) {
	var (
		p                      domain.Product
		productType, status    string
		imagesJSON, variations []byte
	)

	dest := []any{
		&p.ID, &p.Name, &p.Description, &productType, &p.Price, &p.SalePrice,
		&p.PriceRange.Min, &p.PriceRange.Max, &p.SKU, &p.InStock, &imagesJSON,
		&p.Category, &p.Brand, &p.VendorID, &p.IsFeatured, &p.Tags,
		&status, &variations, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.BrandName, &p.VendorName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.ProductType = domain.ProductType(productType)
	p.Status = domain.ProductStatus(status)
	if err := unmarshalJSON("images", imagesJSON, &p.Images); err != nil {
		return nil, err
	}
	if err := unmarshalJSON("variations", variations, &p.Variations); err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	if p.Variations == nil {
		p.Variations = []domain.Variation{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// CSVHeader is the column layout of product export and import files.
var CSVHeader = []string{
	"name", "description", "productType", "price", "salePrice", "sku", "inStock",
	"status", "isFeatured", "tags", "superCategory", "mainCategory", "subCategory",
	"brand", "vendor", "images",
}

const csvListSep = "|"

// column positions in CSVHeader
const (
	colName = iota
	colDescription
	colProductType
	colPrice
	colSalePrice
	colSKU
	colInStock
	colStatus
	colIsFeatured
	colTags
	colSuperCategory
	colMainCategory
	colSubCategory
	colBrand
	colVendor
	colImages
)

// ImportFailure reports a CSV row that was not imported. Row is 1-based and
// counts the header.
type ImportFailure struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed"`
}

// ExportCSV writes every product to w, one row per product.
func (s *ProductService) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("export products: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	paths := make(map[string][3]string)
	for i := range products {
		p := &products[i]
		slots, ok := paths[p.Category]
		if !ok {
			path, err := ResolveCategoryPath(ctx, s.categories, p.Category)
			if err != nil {
				return err
			}
			slots[0], slots[1], slots[2] = domain.FlattenCategoryPath(path)
			paths[p.Category] = slots
		}
		if err := cw.Write(productRecord(p, slots)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	s.logger.InfoContext(ctx, "products exported", slog.Int("count", len(products)))
	return nil
}

func productRecord(p *domain.Product, categories [3]string) []string {
	rec := make([]string, len(CSVHeader))
	rec[colName] = p.Name
	rec[colDescription] = p.Description
	rec[colProductType] = string(p.ProductType)
	rec[colPrice] = formatPrice(p.Price)
	rec[colSalePrice] = formatPrice(p.SalePrice)
	if p.SKU != nil {
		rec[colSKU] = *p.SKU
	}
	rec[colInStock] = strconv.FormatBool(p.InStock)
	rec[colStatus] = string(p.Status)
	rec[colIsFeatured] = strconv.FormatBool(p.IsFeatured)
	rec[colTags] = strings.Join(p.Tags, csvListSep)
	rec[colSuperCategory] = categories[0]
	rec[colMainCategory] = categories[1]
	rec[colSubCategory] = categories[2]
	rec[colBrand] = p.BrandName
	rec[colVendor] = p.VendorName

	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	rec[colImages] = strings.Join(urls, csvListSep)
	return rec
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ImportCSV creates a Simple product per data row of r. Rows that fail to
// parse, resolve or validate are reported and skipped. Only an unreadable
// file or a wrong header fails the whole import.
func (s *ProductService) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.InvalidInput("csv file is empty")
		}
		return nil, apperrors.InvalidInput(fmt.Sprintf("read csv header: %v", err))
	}
	for i, col := range CSVHeader {
		if strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")) != col {
			return nil, apperrors.InvalidInput(fmt.Sprintf("csv column %d must be %q", i+1, col))
		}
	}

	report := &ImportReport{Failed: []ImportFailure{}}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				report.Failed = append(report.Failed, ImportFailure{Row: row, Message: "wrong number of columns"})
				continue
			}
			return nil, apperrors.InvalidInput(fmt.Sprintf("read csv row %d: %v", row, err))
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.importRecord(ctx, rec); err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Status >= 500 {
				return nil, err
			}
			report.Failed = append(report.Failed, ImportFailure{Row: row, Message: importMessage(appErr)})
			continue
		}
		report.Imported++
	}

	s.logger.InfoContext(ctx, "products imported",
		slog.Int("imported", report.Imported),
		slog.Int("failed", len(report.Failed)),
	)
	if report.Imported > 0 {
		s.stats.Invalidate(ctx)
	}
	return report, nil
}

func (s *ProductService) importRecord(ctx context.Context, rec []string) error {
	in, err := s.recordInput(ctx, rec)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	p := &domain.Product{
		ID:        uuid.New().String(),
		Images:    []domain.Image{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	composeProduct(p, in)
	for _, u := range splitList(rec[colImages]) {
		p.Images = append(p.Images, domain.Image{URL: u})
	}
	if err := s.prepare(ctx, p); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	if err := s.producer.PublishProductCreated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// recordInput parses one CSV row and resolves its names to ids.
func (s *ProductService) recordInput(ctx context.Context, rec []string) (*ProductInput, error) {
	if t := strings.TrimSpace(rec[colProductType]); t != "" && domain.ProductType(t) != domain.ProductTypeSimple {
		return nil, apperrors.Validation("productType", "must be Simple for imported products")
	}

	price, err := parseCSVPrice(rec[colPrice], "price")
	if err != nil {
		return nil, err
	}
	salePrice, err := parseCSVPrice(rec[colSalePrice], "salePrice")
	if err != nil {
		return nil, err
	}
	inStock, err := parseCSVBool(rec[colInStock], "inStock", true)
	if err != nil {
		return nil, err
	}
	featured, err := parseCSVBool(rec[colIsFeatured], "isFeatured", false)
	if err != nil {
		return nil, err
	}

	in := &ProductInput{
		Name:        rec[colName],
		Description: rec[colDescription],
		InStock:     inStock,
		IsFeatured:  featured,
		Status:      domain.ProductStatus(strings.TrimSpace(rec[colStatus])),
		Tags:        splitList(rec[colTags]),
		Pricing:     SimplePricing{Price: price, SalePrice: salePrice},
	}
	if in.Status == "" {
		in.Status = domain.ProductStatusPublished
	}
	if sku := strings.TrimSpace(rec[colSKU]); sku != "" {
		in.SKU = &sku
	}

	categoryName := deepestCategory(rec)
	if categoryName == "" {
		return nil, apperrors.Validation("category", "is required")
	}
	cat, err := s.categories.GetByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	in.Category = cat.ID

	brandName := strings.TrimSpace(rec[colBrand])
	if brandName == "" {
		return nil, apperrors.Validation("brand", "is required")
	}
	brand, err := s.brands.GetByName(ctx, brandName)
	if err != nil {
		return nil, err
	}
	in.Brand = brand.ID

	shopName := strings.TrimSpace(rec[colVendor])
	if shopName == "" {
		return nil, apperrors.Validation("vendor", "is required")
	}
	vendor, err := s.vendors.GetByShopName(ctx, shopName)
	if err != nil {
		return nil, err
	}
	in.VendorID = vendor.ID

	return in, nil
}

func deepestCategory(rec []string) string {
	for _, col := range []int{colSubCategory, colMainCategory, colSuperCategory} {
		if name := strings.TrimSpace(rec[col]); name != "" {
			return name
		}
	}
	return ""
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, csvListSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseCSVPrice(raw, field string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.Validation(field, "must be a number")
	}
	return &v, nil
}

func parseCSVBool(raw, field string, def bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.Validation(field, "must be true or false")
	}
	return v, nil
}

// importMessage flattens an error into one line for the import report.
func importMessage(err *apperrors.AppError) string {
	if len(err.Fields) == 0 {
		return err.Message
	}
	parts := make([]string, 0, len(err.Fields))
	for _, field := range slices.Sorted(maps.Keys(err.Fields)) {
		parts = append(parts, field+" "+err.Fields[field])
	}
	return strings.Join(parts, "; ")
}

package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// ProductType selects which pricing fields are authoritative.
type ProductType string

const (
	ProductTypeSimple   ProductType = "Simple"
	ProductTypeVariable ProductType = "Variable"
)

// ProductStatus is the storefront visibility of a product.
type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "Published"
	ProductStatusDraft     ProductStatus = "Draft"
)

// Image is an asset held by the media store.
type Image struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

// PriceRange is the denormalized min/max effective price of a product.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Variation is one purchasable configuration of a Variable product. It has no
// identity outside its product.
type Variation struct {
	Attribute string   `json:"attribute"`
	Value     string   `json:"value"`
	Price     *float64 `json:"price,omitempty"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
	SKU       *string  `json:"sku,omitempty"`
	Image     *Image   `json:"image,omitempty"`
}

// Product is a catalog document. Images, variations and tags are stored
// with the row and written atomically with it.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ProductType ProductType   `json:"productType"`
	Price       *float64      `json:"price,omitempty"`
	SalePrice   *float64      `json:"salePrice,omitempty"`
	PriceRange  PriceRange    `json:"priceRange"`
	SKU         *string       `json:"sku,omitempty"`
	InStock     bool          `json:"inStock"`
	Images      []Image       `json:"images"`
	Category    string        `json:"category"`
	Brand       string        `json:"brand"`
	VendorID    string        `json:"vendorId"`
	IsFeatured  bool          `json:"isFeatured"`
	Tags        []string      `json:"tags"`
	Status      ProductStatus `json:"status"`
	Variations  []Variation   `json:"variations"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Display names joined in on reads; never written.
	CategoryName string `json:"categoryName,omitempty"`
	BrandName    string `json:"brandName,omitempty"`
	VendorName   string `json:"vendorName,omitempty"`
}

// ProductDetail is a product with its resolved root-to-leaf category chain.
type ProductDetail struct {
	*Product
	CategoryPath []Category `json:"categoryPath"`
}

// IsValidProductType reports whether t is a known product type.
func IsValidProductType(t ProductType) bool {
	return t == ProductTypeSimple || t == ProductTypeVariable
}

// IsValidProductStatus reports whether s is a known product status.
func IsValidProductStatus(s ProductStatus) bool {
	return s == ProductStatusPublished || s == ProductStatusDraft
}

// AssetIDs lists every media asset the product references, product images
// first, then variation images.
func (p *Product) AssetIDs() []string {
	ids := make([]string, 0, len(p.Images)+len(p.Variations))
	for _, img := range p.Images {
		if img.AssetID != "" {
			ids = append(ids, img.AssetID)
		}
	}
	for _, v := range p.Variations {
		if v.Image != nil && v.Image.AssetID != "" {
			ids = append(ids, v.Image.AssetID)
		}
	}
	return ids
}

// Validate checks the structural invariants of the document. All violations
// are reported together, keyed by field path.
func (p *Product) Validate() error {
	errs := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "is required"
	}
	if p.Category == "" {
		errs["category"] = "is required"
	}
	if p.Brand == "" {
		errs["brand"] = "is required"
	}
	if p.VendorID == "" {
		errs["vendorId"] = "is required"
	}
	if !IsValidProductStatus(p.Status) {
		errs["status"] = "must be one of: Published Draft"
	}

	checkPrices(errs, "", p.Price, p.SalePrice)

	switch p.ProductType {
	case ProductTypeSimple:
		if p.Price == nil {
			errs["price"] = "is required"
		}
	case ProductTypeVariable:
		if len(p.Variations) == 0 {
			errs["variations"] = "must contain at least one variation"
		}
	default:
		errs["productType"] = "must be one of: Simple Variable"
	}

	seenSKU := make(map[string]int, len(p.Variations))
	for i, v := range p.Variations {
		prefix := fmt.Sprintf("variations[%d].", i)
		if strings.TrimSpace(v.Attribute) == "" {
			errs[prefix+"attribute"] = "is required"
		}
		if strings.TrimSpace(v.Value) == "" {
			errs[prefix+"value"] = "is required"
		}
		if p.ProductType == ProductTypeVariable {
			if v.Price == nil {
				errs[prefix+"price"] = "is required"
			}
		}
		if v.Stock != nil && *v.Stock < 0 {
			errs[prefix+"stock"] = "must not be negative"
		}
		checkPrices(errs, prefix, v.Price, v.SalePrice)

		if v.SKU != nil && *v.SKU != "" {
			if j, dup := seenSKU[*v.SKU]; dup {
				errs[prefix+"sku"] = fmt.Sprintf("duplicates variations[%d].sku", j)
			} else {
				seenSKU[*v.SKU] = i
			}
		}
	}

	if len(errs) > 0 {
		return apperrors.ValidationFields(errs)
	}
	return nil
}

func checkPrices(errs map[string]string, prefix string, price, salePrice *float64) {
	if price != nil && *price < 0 {
		errs[prefix+"price"] = "must not be negative"
	}
	if salePrice != nil && *salePrice < 0 {
		errs[prefix+"salePrice"] = "must not be negative"
	}
	if price != nil && salePrice != nil && *salePrice >= *price {
		errs[prefix+"salePrice"] = "must be less than price"
	}
}

// Normalize prepares a product for storage. It must run before every write:
// blank SKUs become absent so the partial unique index ignores them, tags are
// trimmed and de-duplicated, missing variation stock becomes 0, and the price
// range is recomputed.
func Normalize(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = normalizeSKU(p.SKU)
	for i := range p.Variations {
		p.Variations[i].SKU = normalizeSKU(p.Variations[i].SKU)
		p.Variations[i].Attribute = strings.TrimSpace(p.Variations[i].Attribute)
		p.Variations[i].Value = strings.TrimSpace(p.Variations[i].Value)
		if p.Variations[i].Stock == nil {
			zero := 0
			p.Variations[i].Stock = &zero
		}
	}
	p.Tags = NormalizeTags(p.Tags)
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Variations == nil {
		p.Variations = []Variation{}
	}
	p.PriceRange = DerivePriceRange(p)
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping first
// occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

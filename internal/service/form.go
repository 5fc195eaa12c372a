package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// Attachment field names on product writes.
const (
	FieldImages               = "images"
	FieldVariationImagePrefix = "variation_image_"
	FieldQuickEditImage       = "image"
)

// Pricing is either SimplePricing or VariablePricing.
type Pricing interface {
	productType() domain.ProductType
}

// SimplePricing carries the scalar price of a Simple product.
type SimplePricing struct {
	Price     *float64
	SalePrice *float64
}

func (SimplePricing) productType() domain.ProductType { return domain.ProductTypeSimple }

// VariablePricing carries the variations of a Variable product. KeepExisting
// is set when the request carried no variations field, in which case an
// update keeps the stored variations.
type VariablePricing struct {
	Variations   []domain.Variation
	KeepExisting bool
}

func (VariablePricing) productType() domain.ProductType { return domain.ProductTypeVariable }

// ProductInput is a decoded product write request.
type ProductInput struct {
	Name           string
	Description    string
	SKU            *string
	InStock        bool
	IsFeatured     bool
	Status         domain.ProductStatus
	Category       string
	Brand          string
	VendorID       string
	Tags           []string
	Pricing        Pricing
	ImagesToDelete []string
}

// ProductType reports the variant of the input's pricing.
func (in *ProductInput) ProductType() domain.ProductType {
	if in.Pricing == nil {
		return ""
	}
	return in.Pricing.productType()
}

// QuickEditInput is the narrow price and stock edit.
type QuickEditInput struct {
	Price   *float64
	InStock *bool
}

// Attachment is one uploaded file of a multipart request.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// DecodeProductForm turns the text fields of a multipart product write into a
// ProductInput. JSON-encoded fields and numbers that do not parse are
// rejected with INVALID_INPUT.
func DecodeProductForm(form url.Values) (*ProductInput, error) {
	in := &ProductInput{
		Name:        form.Get("name"),
		Description: form.Get("description"),
		Category:    strings.TrimSpace(form.Get("category")),
		Brand:       strings.TrimSpace(form.Get("brand")),
		VendorID:    strings.TrimSpace(form.Get("vendorId")),
		Status:      domain.ProductStatus(form.Get("status")),
	}
	if in.Status == "" {
		in.Status = domain.ProductStatusPublished
	}
	if form.Has("sku") {
		sku := form.Get("sku")
		in.SKU = &sku
	}

	var err error
	if in.InStock, err = parseBool(form, "inStock", true); err != nil {
		return nil, err
	}
	if in.IsFeatured, err = parseBool(form, "isFeatured", false); err != nil {
		return nil, err
	}
	if err := decodeJSONField(form, "tags", &in.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSONField(form, "imagesToDelete", &in.ImagesToDelete); err != nil {
		return nil, err
	}

	productType := domain.ProductType(form.Get("productType"))
	switch productType {
	case "", domain.ProductTypeSimple:
		price, err := parseFloat(form, "price")
		if err != nil {
			return nil, err
		}
		sale, err := parseFloat(form, "salePrice")
		if err != nil {
			return nil, err
		}
		in.Pricing = SimplePricing{Price: price, SalePrice: sale}
	case domain.ProductTypeVariable:
		vp := VariablePricing{KeepExisting: !form.Has("variations")}
		if err := decodeJSONField(form, "variations", &vp.Variations); err != nil {
			return nil, err
		}
		in.Pricing = vp
	default:
		return nil, apperrors.Validation("productType", "must be one of: Simple Variable")
	}
	return in, nil
}

// DecodeQuickEditForm reads the optional price and inStock fields.
func DecodeQuickEditForm(form url.Values) (*QuickEditInput, error) {
	price, err := parseFloat(form, "price")
	if err != nil {
		return nil, err
	}
	in := &QuickEditInput{Price: price}
	if strings.TrimSpace(form.Get("inStock")) != "" {
		inStock, err := parseBool(form, "inStock", false)
		if err != nil {
			return nil, err
		}
		in.InStock = &inStock
	}
	return in, nil
}

// variationIndex extracts i from a variation_image_<i> field name.
func variationIndex(field string) (int, bool) {
	rest, ok := strings.CutPrefix(field, FieldVariationImagePrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func parseFloat(form url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

func parseBool(form url.Values, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.InvalidInput(fmt.Sprintf("%s must be true or false", key))
	}
	return v, nil
}

func decodeJSONField(form url.Values, key string, v any) error {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("%s is not valid JSON", key))
	}
	return nil
}

package service

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

func TestDecodeProductForm_Defaults(t *testing.T) {
	in, err := DecodeProductForm(url.Values{"name": {"Lamp"}, "price": {"12.5"}})
	require.NoError(t, err)

	assert.Equal(t, domain.ProductTypeSimple, in.ProductType())
	assert.Equal(t, domain.ProductStatusPublished, in.Status)
	assert.True(t, in.InStock)
	assert.False(t, in.IsFeatured)
	assert.Nil(t, in.SKU)

	pricing, ok := in.Pricing.(SimplePricing)
	require.True(t, ok)
	assert.Equal(t, 12.5, *pricing.Price)
	assert.Nil(t, pricing.SalePrice)
}

func TestDecodeProductForm_Variable(t *testing.T) {
	in, err := DecodeProductForm(url.Values{
		"productType": {"Variable"},
		"variations":  {`[{"attribute":"Color","value":"Red","price":10,"stock":1}]`},
		"tags":        {`["a","b"]`},
		"sku":         {"SKU-1"},
	})
	require.NoError(t, err)

	pricing, ok := in.Pricing.(VariablePricing)
	require.True(t, ok)
	assert.False(t, pricing.KeepExisting)
	require.Len(t, pricing.Variations, 1)
	assert.Equal(t, "Red", pricing.Variations[0].Value)
	assert.Equal(t, []string{"a", "b"}, in.Tags)
	assert.Equal(t, "SKU-1", *in.SKU)
}

func TestDecodeProductForm_VariableWithoutVariationsKeepsExisting(t *testing.T) {
	in, err := DecodeProductForm(url.Values{"productType": {"Variable"}})
	require.NoError(t, err)
	assert.True(t, in.Pricing.(VariablePricing).KeepExisting)
}

func TestDecodeProductForm_Errors(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"bad price", url.Values{"price": {"ten"}}},
		{"bad inStock", url.Values{"inStock": {"maybe"}}},
		{"bad tags json", url.Values{"tags": {"[a,"}}},
		{"bad variations json", url.Values{"productType": {"Variable"}, "variations": {"{"}}},
		{"unknown type", url.Values{"productType": {"Bundle"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProductForm(tt.form)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
		})
	}
}

func TestDecodeQuickEditForm(t *testing.T) {
	in, err := DecodeQuickEditForm(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, in.Price)
	assert.Nil(t, in.InStock)

	in, err = DecodeQuickEditForm(url.Values{"price": {"50"}, "inStock": {"false"}})
	require.NoError(t, err)
	assert.Equal(t, 50.0, *in.Price)
	require.NotNil(t, in.InStock)
	assert.False(t, *in.InStock)

	_, err = DecodeQuickEditForm(url.Values{"price": {"cheap"}})
	assert.Error(t, err)
}

func TestVariationIndex(t *testing.T) {
	i, ok := variationIndex("variation_image_3")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	for _, field := range []string{"variation_image_", "variation_image_-1", "images", "variation_image_a"} {
		_, ok := variationIndex(field)
		assert.False(t, ok, field)
	}
}

package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/event"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage/memory"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

const (
	testCategoryID = "11111111-1111-1111-1111-111111111111"
	testBrandID    = "22222222-2222-2222-2222-222222222222"
	testVendorID   = "33333333-3333-3333-3333-333333333333"
	testProductID  = "44444444-4444-4444-4444-444444444444"
)

func intPtr(i int) *int { return &i }

func baseForm() url.Values {
	return url.Values{
		"name":     {"Phone X"},
		"category": {testCategoryID},
		"brand":    {testBrandID},
		"vendorId": {testVendorID},
	}
}

func file(field string) Attachment {
	return Attachment{Field: field, Filename: field + ".jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
}

func uploadAsset(t *testing.T, store storage.Storage) domain.Image {
	t.Helper()
	img, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder: domain.FolderProducts, Filename: "seed.jpg", Data: []byte("seed"),
	})
	require.NoError(t, err)
	return *img
}

func variableProduct() *domain.Product {
	return &domain.Product{
		ID:          testProductID,
		Name:        "Phone X",
		ProductType: domain.ProductTypeVariable,
		InStock:     true,
		Images:      []domain.Image{},
		Category:    testCategoryID,
		Brand:       testBrandID,
		VendorID:    testVendorID,
		Tags:        []string{},
		Status:      domain.ProductStatusPublished,
		Variations: []domain.Variation{
			{Attribute: "Storage", Value: "64GB", Price: f64(100), Stock: intPtr(5)},
			{Attribute: "Storage", Value: "128GB", Price: f64(150), Stock: intPtr(3)},
		},
		PriceRange: domain.PriceRange{Min: 100, Max: 150},
	}
}

func simpleProduct() *domain.Product {
	return &domain.Product{
		ID:          testProductID,
		Name:        "Lamp",
		ProductType: domain.ProductTypeSimple,
		Price:       f64(100),
		InStock:     true,
		Images:      []domain.Image{},
		Category:    testCategoryID,
		Brand:       testBrandID,
		VendorID:    testVendorID,
		Tags:        []string{},
		Status:      domain.ProductStatusPublished,
		Variations:  []domain.Variation{},
		PriceRange:  domain.PriceRange{Min: 100, Max: 100},
	}
}

func TestCreateProduct_VariableWithImages(t *testing.T) {
	store := memory.New("http://media.test")
	svc, d := newProductService(t, store)
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)

	var created *domain.Product
	d.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Product) }).
		Return(nil)

	form := baseForm()
	form.Set("productType", "Variable")
	form.Set("price", "999")
	form.Set("tags", `["new"," new ","5g"]`)
	form.Set("variations", `[
		{"attribute":"Storage","value":"64GB","price":100,"stock":5},
		{"attribute":"Storage","value":"128GB","price":150,"stock":3}
	]`)
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, in, []Attachment{
		file(FieldImages), file(FieldImages), file("variation_image_1"),
	})
	require.NoError(t, err)
	require.Same(t, p, created)

	assert.Equal(t, domain.ProductTypeVariable, p.ProductType)
	assert.Nil(t, p.Price, "variable products carry no product-level price")
	assert.Equal(t, domain.PriceRange{Min: 100, Max: 150}, p.PriceRange)
	assert.Equal(t, []string{"new", "5g"}, p.Tags)
	assert.Len(t, p.Images, 2)
	assert.Nil(t, p.Variations[0].Image)
	require.NotNil(t, p.Variations[1].Image)
	assert.True(t, store.Exists(p.Variations[1].Image.AssetID))
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, fixedNow, p.CreatedAt)

	d.publisher.AssertCalled(t, "Publish", mock.Anything, event.TopicProductCreated, mock.Anything)
	d.cache.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestCreateProduct_SimpleZeroSalePrice(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("price", "40")
	form.Set("salePrice", "0")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, in, nil)
	require.NoError(t, err)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 0}, p.PriceRange)
	assert.Equal(t, []domain.Image{}, p.Images)
}

func TestCreateProduct_ValidationBeforeUpload(t *testing.T) {
	store := new(mockStorage)
	svc, d := newProductService(t, store)

	form := baseForm()
	form.Set("price", "10")
	form.Set("salePrice", "12")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), in, []Attachment{file(FieldImages)})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "must be less than price", appErr.Fields["salePrice"])
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	d.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.categories.On("GetByID", ctx, testCategoryID).Return(nil, apperrors.NotFound("category", testCategoryID))

	form := baseForm()
	form.Set("price", "10")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, in, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	d.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProduct_SalePriceNarrowsRange(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(variableProduct(), nil)
	d.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("productType", "Variable")
	form.Set("variations", `[
		{"attribute":"Storage","value":"64GB","price":100,"salePrice":80,"stock":5},
		{"attribute":"Storage","value":"128GB","price":150,"stock":3}
	]`)
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.UpdateProduct(ctx, testProductID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceRange{Min: 80, Max: 150}, p.PriceRange)
	assert.Equal(t, fixedNow, p.UpdatedAt)
	d.publisher.AssertCalled(t, "Publish", mock.Anything, event.TopicProductUpdated, mock.Anything)
}

func TestUpdateProduct_KeepsVariationsWhenOmitted(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(variableProduct(), nil)
	d.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("productType", "Variable")
	form.Set("name", "Phone X2")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.UpdateProduct(ctx, testProductID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Phone X2", p.Name)
	assert.Len(t, p.Variations, 2)
	assert.Equal(t, domain.PriceRange{Min: 100, Max: 150}, p.PriceRange)
}

func TestUpdateProduct_ImagesToDeleteAndVariationReplace(t *testing.T) {
	store := memory.New("http://media.test")
	svc, d := newProductService(t, store)
	ctx := context.Background()

	keep := uploadAsset(t, store)
	drop := uploadAsset(t, store)
	oldVariation := uploadAsset(t, store)

	existing := variableProduct()
	existing.Images = []domain.Image{drop, keep}
	existing.Variations[0].Image = &oldVariation

	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)
	d.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("productType", "Variable")
	form.Set("imagesToDelete", `["`+drop.AssetID+`"]`)
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.UpdateProduct(ctx, testProductID, in, []Attachment{
		file("variation_image_0"), file(FieldImages),
	})
	require.NoError(t, err)

	require.Len(t, p.Images, 2)
	assert.Equal(t, keep, p.Images[0], "kept images stay ahead of new uploads")
	require.NotNil(t, p.Variations[0].Image)
	assert.NotEqual(t, oldVariation.AssetID, p.Variations[0].Image.AssetID)

	assert.False(t, store.Exists(drop.AssetID))
	assert.False(t, store.Exists(oldVariation.AssetID))
	assert.True(t, store.Exists(keep.AssetID))
	assert.Equal(t, 3, store.Len())
}

func TestUpdateProduct_IgnoresForeignImagesToDelete(t *testing.T) {
	store := memory.New("http://media.test")
	svc, d := newProductService(t, store)
	ctx := context.Background()

	own := uploadAsset(t, store)
	foreign := uploadAsset(t, store)

	existing := simpleProduct()
	existing.Images = []domain.Image{own}

	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)
	d.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("productType", "Simple")
	form.Set("price", "100")
	form.Set("imagesToDelete", `["`+foreign.AssetID+`","`+own.AssetID+`"]`)
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.UpdateProduct(ctx, testProductID, in, nil)
	require.NoError(t, err)

	assert.Empty(t, p.Images)
	assert.False(t, store.Exists(own.AssetID))
	assert.True(t, store.Exists(foreign.AssetID), "assets outside the product are left alone")
}

func TestCreateProduct_VariationStockDefaultsToZero(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	form := baseForm()
	form.Set("productType", "Variable")
	form.Set("variations", `[{"attribute":"Color","value":"Red","price":100}]`)
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, in, nil)
	require.NoError(t, err)
	require.Len(t, p.Variations, 1)
	require.NotNil(t, p.Variations[0].Stock)
	assert.Equal(t, 0, *p.Variations[0].Stock)
}

func TestUpdateProduct_VariationIndexOutOfRange(t *testing.T) {
	store := new(mockStorage)
	svc, d := newProductService(t, store)
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(variableProduct(), nil)

	form := baseForm()
	form.Set("productType", "Variable")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, testProductID, in, []Attachment{file("variation_image_2")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	d.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_UploadFailureAborts(t *testing.T) {
	store := new(mockStorage)
	svc, d := newProductService(t, store)
	ctx := context.Background()
	d.expectReferences(testCategoryID, testBrandID, testVendorID)
	d.products.On("GetByID", ctx, testProductID).Return(simpleProduct(), nil)
	store.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("cloud unavailable"))

	form := baseForm()
	form.Set("price", "100")
	in, err := DecodeProductForm(form)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, testProductID, in, []Attachment{file(FieldImages)})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	d.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	d.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()
	d.products.On("GetByID", ctx, testProductID).Return(nil, apperrors.NotFound("product", testProductID))

	in, err := DecodeProductForm(baseForm())
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, testProductID, in, nil)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestQuickEdit_PriceStockAndImage(t *testing.T) {
	store := memory.New("http://media.test")
	svc, d := newProductService(t, store)
	ctx := context.Background()

	first := uploadAsset(t, store)
	second := uploadAsset(t, store)
	existing := simpleProduct()
	existing.Images = []domain.Image{first, second}

	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)
	d.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	in, err := DecodeQuickEditForm(url.Values{"price": {"50"}, "inStock": {"false"}})
	require.NoError(t, err)
	img := file(FieldQuickEditImage)

	p, err := svc.QuickEdit(ctx, testProductID, in, &img)
	require.NoError(t, err)

	assert.Equal(t, 50.0, *p.Price)
	assert.False(t, p.InStock)
	assert.Equal(t, domain.PriceRange{Min: 50, Max: 50}, p.PriceRange)
	require.Len(t, p.Images, 2)
	assert.NotEqual(t, first.AssetID, p.Images[0].AssetID)
	assert.Equal(t, second, p.Images[1])
	assert.False(t, store.Exists(first.AssetID))
	assert.True(t, store.Exists(p.Images[0].AssetID))
}

func TestQuickEdit_PriceBelowSalePriceRejected(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()

	existing := simpleProduct()
	existing.SalePrice = f64(60)
	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)

	_, err := svc.QuickEdit(ctx, testProductID, &QuickEditInput{Price: f64(50)}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	d.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct_ReleasesAllAssets(t *testing.T) {
	store := memory.New("http://media.test")
	svc, d := newProductService(t, store)
	ctx := context.Background()

	existing := variableProduct()
	existing.Images = []domain.Image{uploadAsset(t, store), uploadAsset(t, store)}
	vimg := uploadAsset(t, store)
	existing.Variations[1].Image = &vimg

	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)
	d.products.On("Delete", ctx, testProductID).Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, testProductID))
	assert.Equal(t, 0, store.Len())
	d.products.AssertExpectations(t)
	d.publisher.AssertCalled(t, "Publish", mock.Anything, event.TopicProductDeleted, mock.Anything)
}

func TestDeleteProduct_AssetFailureStillDeletes(t *testing.T) {
	store := new(mockStorage)
	svc, d := newProductService(t, store)
	ctx := context.Background()

	existing := simpleProduct()
	existing.Images = []domain.Image{{AssetID: "hadeedcart_products/a", URL: "u"}}
	d.products.On("GetByID", ctx, testProductID).Return(existing, nil)
	d.products.On("Delete", ctx, testProductID).Return(nil)
	store.On("DeleteMany", ctx, []string{"hadeedcart_products/a"}).Return(errors.New("timeout"))

	require.NoError(t, svc.DeleteProduct(ctx, testProductID))
	d.products.AssertCalled(t, "Delete", ctx, testProductID)
}

func TestGetProduct_WithCategoryPath(t *testing.T) {
	svc, d := newProductService(t, memory.New("http://media.test"))
	ctx := context.Background()

	root := "root-id"
	d.products.On("GetByID", ctx, testProductID).Return(simpleProduct(), nil)
	d.categories.On("GetByID", ctx, testCategoryID).Return(&domain.Category{ID: testCategoryID, Name: "Phones", Parent: &root}, nil)
	d.categories.On("GetByID", ctx, root).Return(&domain.Category{ID: root, Name: "Electronics"}, nil)

	detail, err := svc.GetProduct(ctx, testProductID)
	require.NoError(t, err)
	require.Len(t, detail.CategoryPath, 2)
	assert.Equal(t, "Electronics", detail.CategoryPath[0].Name)
	assert.Equal(t, "Phones", detail.CategoryPath[1].Name)
}

func TestPlanUploads(t *testing.T) {
	plan, err := planUploads([]Attachment{file(FieldImages), file("variation_image_0")}, 1)
	require.NoError(t, err)
	assert.Len(t, plan.images, 1)
	assert.Contains(t, plan.variations, 0)

	_, err = planUploads([]Attachment{file("thumbnail")}, 1)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = planUploads([]Attachment{file("variation_image_x")}, 1)
	assert.Error(t, err)
}

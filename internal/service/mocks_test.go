package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/event"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	pkgkafka "github.com/awaisahmed1123/hadeedcart-backend/pkg/kafka"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepository) CountByVendor(ctx context.Context, vendorID string) (int, error) {
	args := m.Called(ctx, vendorID)
	return args.Int(0), args.Error(1)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepository) CountChildren(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockBrandRepository struct {
	mock.Mock
}

func (m *mockBrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *mockBrandRepository) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Brand), args.Error(1)
}

func (m *mockBrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Brand), args.Error(1)
}

func (m *mockBrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBrandRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockVendorRepository struct {
	mock.Mock
}

func (m *mockVendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) GetByShopName(ctx context.Context, shopName string) (*domain.Vendor, error) {
	args := m.Called(ctx, shopName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) List(ctx context.Context) ([]domain.Vendor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) UpdateStatus(ctx context.Context, id string, status domain.VendorStatus) (*domain.Vendor, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *mockVendorRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBannerRepository struct {
	mock.Mock
}

func (m *mockBannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Banner), args.Error(1)
}

func (m *mockBannerRepository) ListActive(ctx context.Context) ([]domain.Banner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Banner), args.Error(1)
}

func (m *mockBannerRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEmployeeRepository struct {
	mock.Mock
}

func (m *mockEmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepository) List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Customer), args.Int(1), args.Error(2)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) DashboardStats(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

type mockSystemRepository struct {
	mock.Mock
}

func (m *mockSystemRepository) FactoryReset(ctx context.Context) (repository.ResetCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ResetCounts), args.Error(1)
}

func (m *mockSystemRepository) Wipe(ctx context.Context, admin *domain.Employee) error {
	return m.Called(ctx, admin).Error(0)
}

type mockStatsCache struct {
	mock.Mock
}

func (m *mockStatsCache) Get(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *mockStatsCache) Set(ctx context.Context, stats *domain.DashboardStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *mockStatsCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock Collaborators ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, input *storage.UploadInput) (*domain.Image, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, assetID string) error {
	return m.Called(ctx, assetID).Error(0)
}

func (m *mockStorage) DeleteMany(ctx context.Context, assetIDs []string) error {
	return m.Called(ctx, assetIDs).Error(0)
}

func (m *mockStorage) Search(ctx context.Context, query storage.SearchQuery) ([]domain.MediaAsset, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MediaAsset), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, ev *pkgkafka.Event) error {
	return m.Called(ctx, topic, ev).Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) Generate(e *domain.Employee) (string, error) {
	args := m.Called(e)
	return args.String(0), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func f64(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// productDeps bundles the collaborators of a ProductService under test.
type productDeps struct {
	products   *mockProductRepository
	categories *mockCategoryRepository
	brands     *mockBrandRepository
	vendors    *mockVendorRepository
	store      storage.Storage
	publisher  *mockPublisher
	cache      *mockStatsCache
}

// newProductService builds a service whose publisher and stats cache accept
// any call.
func newProductService(t *testing.T, store storage.Storage) (*ProductService, *productDeps) {
	t.Helper()
	d := &productDeps{
		products:   new(mockProductRepository),
		categories: new(mockCategoryRepository),
		brands:     new(mockBrandRepository),
		vendors:    new(mockVendorRepository),
		store:      store,
		publisher:  new(mockPublisher),
		cache:      new(mockStatsCache),
	}
	d.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	d.cache.On("Invalidate", mock.Anything).Return(nil).Maybe()

	logger := newTestLogger()
	svc := NewProductService(
		d.products, d.categories, d.brands, d.vendors, store,
		event.NewProducer(d.publisher, logger),
		NewStatsInvalidator(d.cache, logger),
		logger,
	)
	svc.now = fixedClock
	return svc, d
}

// expectReferences makes the category, brand and vendor lookups succeed.
func (d *productDeps) expectReferences(category, brand, vendor string) {
	d.categories.On("GetByID", mock.Anything, category).Return(&domain.Category{ID: category, Name: "Phones"}, nil)
	d.brands.On("GetByID", mock.Anything, brand).Return(&domain.Brand{ID: brand, Name: "Acme"}, nil)
	d.vendors.On("GetByID", mock.Anything, vendor).Return(&domain.Vendor{ID: vendor, ShopName: "Acme Store"}, nil)
}

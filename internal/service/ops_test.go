package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage/memory"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// --- Dashboard ---

func TestDashboardStats_CacheHit(t *testing.T) {
	stats := new(mockStatsRepository)
	cache := new(mockStatsCache)
	svc := NewDashboardService(stats, cache, newTestLogger())
	ctx := context.Background()

	cached := &domain.DashboardStats{TotalProducts: 7}
	cache.On("Get", ctx).Return(cached, nil)

	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, cached, got)
	stats.AssertNotCalled(t, "DashboardStats", mock.Anything, mock.Anything)
}

func TestDashboardStats_MissComputesAndCaches(t *testing.T) {
	stats := new(mockStatsRepository)
	cache := new(mockStatsCache)
	svc := NewDashboardService(stats, cache, newTestLogger())
	svc.now = fixedClock
	ctx := context.Background()

	computed := &domain.DashboardStats{TotalOrders: 4}
	cache.On("Get", ctx).Return(nil, nil)
	stats.On("DashboardStats", ctx, fixedNow).Return(computed, nil)
	cache.On("Set", ctx, computed).Return(nil)

	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalOrders)
	cache.AssertExpectations(t)
}

func TestDashboardStats_CacheDownFallsThrough(t *testing.T) {
	stats := new(mockStatsRepository)
	cache := new(mockStatsCache)
	svc := NewDashboardService(stats, cache, newTestLogger())
	svc.now = fixedClock
	ctx := context.Background()

	cache.On("Get", ctx).Return(nil, errors.New("redis down"))
	stats.On("DashboardStats", ctx, fixedNow).Return(&domain.DashboardStats{}, nil)
	cache.On("Set", ctx, mock.Anything).Return(errors.New("redis down"))

	_, err := svc.Stats(ctx)
	require.NoError(t, err)
}

func TestStatsInvalidator_NilSafe(t *testing.T) {
	var inv *StatsInvalidator
	assert.NotPanics(t, func() { inv.Invalidate(context.Background()) })

	cache := new(mockStatsCache)
	cache.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
	assert.NotPanics(t, func() { NewStatsInvalidator(cache, newTestLogger()).Invalidate(context.Background()) })
	cache.AssertExpectations(t)
}

// --- Orders ---

func TestUpdateOrderStatus_Delivered(t *testing.T) {
	repo := new(mockOrderRepository)
	cache := new(mockStatsCache)
	svc := NewOrderService(repo, NewStatsInvalidator(cache, newTestLogger()), newTestLogger())
	svc.now = fixedClock
	ctx := context.Background()

	repo.On("GetByID", ctx, "o1").Return(&domain.Order{ID: "o1", OrderStatus: domain.OrderStatusShipped}, nil)
	repo.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	cache.On("Invalidate", ctx).Return(nil)

	o, err := svc.UpdateOrderStatus(ctx, "o1", domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, o.IsDelivered)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, fixedNow, *o.DeliveredAt)
	cache.AssertExpectations(t)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil, newTestLogger())

	_, err := svc.UpdateOrderStatus(context.Background(), "o1", "Lost")
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestListOrders(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil, newTestLogger())
	ctx := context.Background()
	params := pagination.DefaultParams()

	repo.On("List", ctx, params).Return([]domain.Order(nil), 0, nil)

	res, err := svc.ListOrders(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []domain.Order{}, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}

// --- Banners ---

func TestCreateBanner(t *testing.T) {
	repo := new(mockBannerRepository)
	store := memory.New("http://media.test")
	svc := NewBannerService(repo, store, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Banner")).Return(nil)

	b, err := svc.CreateBanner(ctx, CreateBannerInput{
		Type:  domain.BannerTypeSlider,
		Link:  " /sale ",
		Image: &Attachment{Field: "image", Filename: "hero.png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.Equal(t, "/sale", b.Link)
	assert.True(t, store.Exists(b.Image.AssetID))
	assert.Contains(t, b.Image.AssetID, domain.FolderBanners)
}

func TestCreateBanner_Invalid(t *testing.T) {
	repo := new(mockBannerRepository)
	store := new(mockStorage)
	svc := NewBannerService(repo, store, newTestLogger())

	_, err := svc.CreateBanner(context.Background(), CreateBannerInput{Type: domain.BannerTypeSlider})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = svc.CreateBanner(context.Background(), CreateBannerInput{
		Type:  "Footer",
		Image: &Attachment{Data: []byte("png")},
	})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDeleteBanner_AssetAlreadyGone(t *testing.T) {
	repo := new(mockBannerRepository)
	store := new(mockStorage)
	svc := NewBannerService(repo, store, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "b1").Return(&domain.Banner{ID: "b1", Image: domain.Image{AssetID: "hadeedcart_banners/x"}}, nil)
	store.On("Delete", ctx, "hadeedcart_banners/x").Return(apperrors.NotFound("asset", "hadeedcart_banners/x"))
	repo.On("Delete", ctx, "b1").Return(nil)

	require.NoError(t, svc.DeleteBanner(ctx, "b1"))
	repo.AssertExpectations(t)
}

func TestDeleteBanner_StoreFailureKeepsRecord(t *testing.T) {
	repo := new(mockBannerRepository)
	store := new(mockStorage)
	svc := NewBannerService(repo, store, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "b1").Return(&domain.Banner{ID: "b1", Image: domain.Image{AssetID: "a"}}, nil)
	store.On("Delete", ctx, "a").Return(errors.New("timeout"))

	err := svc.DeleteBanner(ctx, "b1")
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- Media ---

func TestListAssets_MergesNewestFirst(t *testing.T) {
	store := new(mockStorage)
	svc := NewMediaService(store, newTestLogger())

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.On("Search", mock.Anything, storage.SearchQuery{Folder: domain.FolderProducts, MaxResults: 100}).
		Return([]domain.MediaAsset{{AssetID: "p2", CreatedAt: t0.Add(3 * time.Hour)}, {AssetID: "p1", CreatedAt: t0}}, nil)
	store.On("Search", mock.Anything, storage.SearchQuery{Folder: domain.FolderBanners, MaxResults: 50}).
		Return([]domain.MediaAsset{{AssetID: "b1", CreatedAt: t0.Add(time.Hour)}}, nil)

	assets, err := svc.ListAssets(context.Background())
	require.NoError(t, err)

	got := make([]string, len(assets))
	for i, a := range assets {
		got[i] = a.AssetID
	}
	assert.Equal(t, []string{"p2", "b1", "p1"}, got)
}

func TestListAssets_SearchError(t *testing.T) {
	store := new(mockStorage)
	svc := NewMediaService(store, newTestLogger())

	store.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("401 unauthorized"))

	_, err := svc.ListAssets(context.Background())
	assert.Error(t, err)
}

func TestDeleteAsset(t *testing.T) {
	store := memory.New("http://media.test")
	svc := NewMediaService(store, newTestLogger())
	ctx := context.Background()

	img, err := store.Upload(ctx, &storage.UploadInput{Folder: domain.FolderProducts, Filename: "a.jpg", Data: []byte("x")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAsset(ctx, img.AssetID))
	assert.False(t, store.Exists(img.AssetID))

	err = svc.DeleteAsset(ctx, img.AssetID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = svc.DeleteAsset(ctx, " ")
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

// --- System ---

type systemDeps struct {
	repo      *mockSystemRepository
	employees *mockEmployeeRepository
	hasher    *mockHasher
	cache     *mockStatsCache
}

func newSystemService(seedPassword string) (*SystemService, *systemDeps) {
	d := &systemDeps{
		repo:      new(mockSystemRepository),
		employees: new(mockEmployeeRepository),
		hasher:    new(mockHasher),
		cache:     new(mockStatsCache),
	}
	d.cache.On("Invalidate", mock.Anything).Return(nil).Maybe()
	logger := newTestLogger()
	svc := NewSystemService(d.repo, d.employees, d.hasher, NewStatsInvalidator(d.cache, logger), logger, seedPassword)
	svc.now = fixedClock
	return svc, d
}

func TestFactoryReset(t *testing.T) {
	svc, d := newSystemService("")
	ctx := context.Background()

	admin := &domain.Employee{ID: "a1", Role: domain.RoleAdmin, PasswordHash: "hash"}
	d.employees.On("GetByID", ctx, "a1").Return(admin, nil)
	d.hasher.On("Compare", "hash", "pw").Return(true, nil)
	d.repo.On("FactoryReset", ctx).Return(repository.ResetCounts{"products": 12, "employees": 3}, nil)

	counts, err := svc.FactoryReset(ctx, "a1", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(12), counts["products"])
	d.cache.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestFactoryReset_Refusals(t *testing.T) {
	tests := []struct {
		name     string
		employee *domain.Employee
		compare  bool
		password string
		status   int
	}{
		{"non admin", &domain.Employee{ID: "a1", Role: domain.RoleEmployee, PasswordHash: "hash"}, true, "pw", http.StatusForbidden},
		{"wrong password", &domain.Employee{ID: "a1", Role: domain.RoleAdmin, PasswordHash: "hash"}, false, "pw", http.StatusBadRequest},
		{"missing password", &domain.Employee{ID: "a1", Role: domain.RoleAdmin, PasswordHash: "hash"}, true, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newSystemService("")
			d.employees.On("GetByID", mock.Anything, "a1").Return(tt.employee, nil)
			d.hasher.On("Compare", "hash", tt.password).Return(tt.compare, nil).Maybe()

			_, err := svc.FactoryReset(context.Background(), "a1", tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperrors.HTTPStatus(err))
			d.repo.AssertNotCalled(t, "FactoryReset", mock.Anything)
		})
	}
}

func TestSeed(t *testing.T) {
	svc, d := newSystemService("")
	ctx := context.Background()

	d.hasher.On("Hash", DefaultSeedPasswd).Return("seed-hash", nil)
	var admin *domain.Employee
	d.repo.On("Wipe", ctx, mock.AnythingOfType("*domain.Employee")).
		Run(func(args mock.Arguments) { admin = args.Get(1).(*domain.Employee) }).
		Return(nil)

	res, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedAdminEmail, res.AdminEmail)
	assert.Equal(t, DefaultSeedPasswd, res.AdminPassword)

	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.AllPermissions(), admin.Permissions)
	assert.Equal(t, "seed-hash", admin.PasswordHash)
	assert.Equal(t, fixedNow, admin.CreatedAt)
}

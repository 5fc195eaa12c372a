package repository

import (
	"context"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// ProductFilter defines filter criteria for listing products. Empty strings
// mean "any".
type ProductFilter struct {
	Search   string
	Category string
	Vendor   string
	Status   string
	InStock  *bool
	pagination.Params
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product document.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter, newest first, with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// ListAll returns every product with category, brand and vendor names joined.
	ListAll(ctx context.Context) ([]domain.Product, error)

	// Update overwrites every mutable field of an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id string) error

	// CountByVendor returns how many products a vendor owns.
	CountByVendor(ctx context.Context, vendorID string) (int, error)
}

// CategoryRepository defines persistence for the category forest.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	// List returns all categories sorted by name.
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	CountChildren(ctx context.Context, id string) (int, error)
}

// BrandRepository defines brand persistence.
type BrandRepository interface {
	Create(ctx context.Context, b *domain.Brand) error
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*domain.Brand, error)
	List(ctx context.Context) ([]domain.Brand, error)
	Update(ctx context.Context, b *domain.Brand) error
	Delete(ctx context.Context, id string) error
}

// VendorRepository defines vendor persistence.
type VendorRepository interface {
	Create(ctx context.Context, v *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	// GetByShopName matches case-insensitively.
	GetByShopName(ctx context.Context, shopName string) (*domain.Vendor, error)
	// List returns vendors newest first.
	List(ctx context.Context) ([]domain.Vendor, error)
	UpdateStatus(ctx context.Context, id string, status domain.VendorStatus) (*domain.Vendor, error)
	Delete(ctx context.Context, id string) error
}

// BannerRepository defines banner persistence.
type BannerRepository interface {
	Create(ctx context.Context, b *domain.Banner) error
	GetByID(ctx context.Context, id string) (*domain.Banner, error)
	// ListActive returns active banners newest first.
	ListActive(ctx context.Context) ([]domain.Banner, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeRepository defines employee persistence. Returned employees carry
// their password hash; callers must not serialize it (the json tag drops it).
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	// GetByEmail matches the lowercased email.
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	// Update writes name, email, password hash, permissions, role and status.
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
}

// CustomerRepository defines storefront customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	// List returns customers newest first.
	List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error)
}

// OrderRepository defines order persistence.
type OrderRepository interface {
	// List returns orders newest first with the customer summary joined.
	List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus persists orderStatus, isDelivered and deliveredAt.
	UpdateStatus(ctx context.Context, o *domain.Order) error
}

// StatsRepository computes reporting aggregates.
type StatsRepository interface {
	// DashboardStats aggregates counts and the sales chart for the seven
	// calendar days ending on now.
	DashboardStats(ctx context.Context, now time.Time) (*domain.DashboardStats, error)
}

// ResetCounts reports how many rows a wipe removed per collection.
type ResetCounts map[string]int64

// SystemRepository performs whole-store maintenance in one transaction.
type SystemRepository interface {
	// FactoryReset deletes all catalog, order and customer data plus every
	// non-Admin employee.
	FactoryReset(ctx context.Context) (ResetCounts, error)
	// Wipe deletes everything including admins, then inserts admin.
	Wipe(ctx context.Context, admin *domain.Employee) error
}

// StatsCache caches dashboard figures.
type StatsCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context) (*domain.DashboardStats, error)
	Set(ctx context.Context, stats *domain.DashboardStats) error
	Invalidate(ctx context.Context) error
}

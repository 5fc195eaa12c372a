package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/health"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
)

// publicCacheSeconds is the Cache-Control max-age of the storefront banner list.
const publicCacheSeconds = 60

// Handlers groups every resource handler mounted under /api.
type Handlers struct {
	Products   *ProductHandler
	Categories *CategoryHandler
	Brands     *BrandHandler
	Vendors    *VendorHandler
	Banners    *BannerHandler
	Employees  *EmployeeHandler
	Orders     *OrderHandler
	Customers  *CustomerHandler
	Dashboard  *DashboardHandler
	Media      *MediaHandler
	System     *SystemHandler
}

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	CORS          middleware.CORSConfig
	Validate      middleware.TokenValidator
	LoginLimiter  *middleware.RateLimiter
	PprofCIDRs    []string
	EnableSeed    bool
	HealthHandler *health.Handler
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all admin API routes registered.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics)

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	authn := middleware.Auth(cfg.Validate)
	can := func(p domain.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(string(p))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			if cfg.LoginLimiter != nil {
				r.Use(cfg.LoginLimiter.Handler)
			}
			r.Post("/login", h.Employees.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{id}", h.Products.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(authn, can(domain.PermManageProducts))
				r.Post("/", h.Products.CreateProduct)
				r.Put("/{id}", h.Products.UpdateProduct)
				r.Delete("/{id}", h.Products.DeleteProduct)
				r.Patch("/quick-edit/{id}", h.Products.QuickEditProduct)
				r.Get("/export/csv", h.Products.ExportProducts)
				r.Post("/import", h.Products.ImportProducts)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.ListCategories)
			r.Group(func(r chi.Router) {
				r.Use(authn, can(domain.PermManageCategories))
				r.Post("/", h.Categories.CreateCategory)
				r.Put("/{id}", h.Categories.UpdateCategory)
				r.Delete("/{id}", h.Categories.DeleteCategory)
			})
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.Brands.ListBrands)
			r.Group(func(r chi.Router) {
				r.Use(authn, can(domain.PermManageBrands))
				r.Post("/", h.Brands.CreateBrand)
				r.Put("/{id}", h.Brands.UpdateBrand)
				r.Delete("/{id}", h.Brands.DeleteBrand)
			})
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Use(authn, can(domain.PermManageVendors))
			r.Get("/", h.Vendors.ListVendors)
			r.Post("/", h.Vendors.CreateVendor)
			r.Put("/{id}/status", h.Vendors.UpdateVendorStatus)
			r.Delete("/{id}", h.Vendors.DeleteVendor)
		})

		r.Route("/banners", func(r chi.Router) {
			r.With(middleware.CacheControl(publicCacheSeconds)).Get("/", h.Banners.ListBanners)
			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Post("/", h.Banners.CreateBanner)
				r.Delete("/{id}", h.Banners.DeleteBanner)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(authn)
			r.Put("/profile", h.Employees.UpdateProfile)
			r.Put("/change-password", h.Employees.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(can(domain.PermManageEmployees))
				r.Get("/", h.Employees.ListEmployees)
				r.Post("/", h.Employees.CreateEmployee)
				r.Put("/{id}/status", h.Employees.SetEmployeeStatus)
				r.Delete("/{id}", h.Employees.DeleteEmployee)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authn, can(domain.PermManageOrders))
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{id}", h.Orders.GetOrder)
			r.Put("/{id}/status", h.Orders.UpdateOrderStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Customers.Register)
			r.With(authn).Get("/", h.Customers.ListCustomers)
		})

		r.With(authn, can(domain.PermViewDashboard)).Get("/dashboard/stats", h.Dashboard.Stats)

		r.Route("/media", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", h.Media.ListMedia)
			r.Delete("/", h.Media.DeleteMedia)
		})

		r.With(authn, middleware.RequireRole(string(domain.RoleAdmin)), middleware.NoStore).
			Post("/system/factory-reset", h.System.FactoryReset)

		if cfg.EnableSeed {
			r.Post("/seed", h.System.Seed)
		}
	})

	return r
}

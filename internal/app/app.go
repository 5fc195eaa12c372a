package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/auth"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/config"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/event"
	handler "github.com/awaisahmed1123/hadeedcart-backend/internal/handler/http"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository/postgres"
	redisrepo "github.com/awaisahmed1123/hadeedcart-backend/internal/repository/redis"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage/cloudinary"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage/memory"
	"github.com/awaisahmed1123/hadeedcart-backend/migrations"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/health"
	pkgkafka "github.com/awaisahmed1123/hadeedcart-backend/pkg/kafka"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/tracing"
)

const serviceName = "hadeedcart-backend"

// App wires together all dependencies and runs the backend.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	loginLimiter   *middleware.RateLimiter
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig(serviceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	traceCfg.Enabled = cfg.OTELEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	// Redis only backs the dashboard cache. The client reconnects on its own,
	// so a failed first ping is logged and start-up continues.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, dashboard stats will not be cached",
			slog.String("error", err.Error()),
		)
	}

	// Kafka.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	store := newStorage(cfg, logger)

	// Repositories.
	products := postgres.NewProductRepository(pool)
	categories := postgres.NewCategoryRepository(pool)
	brands := postgres.NewBrandRepository(pool)
	vendors := postgres.NewVendorRepository(pool)
	banners := postgres.NewBannerRepository(pool)
	employees := postgres.NewEmployeeRepository(pool)
	customers := postgres.NewCustomerRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	statsCache := redisrepo.NewStatsCache(redisClient, cfg.StatsCacheTTL)

	// Services.
	hasher := auth.NewHasher(auth.DefaultBcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	stats := service.NewStatsInvalidator(statsCache, logger)

	productService := service.NewProductService(
		products, categories, brands, vendors,
		store, event.NewProducer(producer, logger), stats, logger,
	)
	productService.SetUploadConcurrency(cfg.UploadConcurrency)

	handlers := handler.Handlers{
		Products:   handler.NewProductHandler(productService, cfg.MaxUploadBytes(), logger),
		Categories: handler.NewCategoryHandler(service.NewCategoryService(categories, stats, logger), logger),
		Brands:     handler.NewBrandHandler(service.NewBrandService(brands, stats, logger), logger),
		Vendors:    handler.NewVendorHandler(service.NewVendorService(vendors, products, hasher, stats, logger), logger),
		Banners:    handler.NewBannerHandler(service.NewBannerService(banners, store, logger), cfg.MaxUploadBytes(), logger),
		Employees:  handler.NewEmployeeHandler(service.NewEmployeeService(employees, hasher, jwtManager, logger), logger),
		Orders:     handler.NewOrderHandler(service.NewOrderService(orders, stats, logger), logger),
		Customers:  handler.NewCustomerHandler(service.NewCustomerService(customers, hasher, stats, logger), logger),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(postgres.NewStatsRepository(pool), statsCache, logger), logger),
		Media:      handler.NewMediaHandler(service.NewMediaService(store, logger), logger),
		System: handler.NewSystemHandler(service.NewSystemService(
			postgres.NewSystemRepository(pool), employees, hasher, stats, logger, cfg.SeedAdminPassword,
		), logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handlers, handler.RouterConfig{
		CORS:          corsCfg,
		Validate:      jwtManager.TokenValidator(),
		LoginLimiter:  loginLimiter,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
		EnableSeed:    cfg.IsDevelopment(),
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		loginLimiter:   loginLimiter,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// newStorage picks Cloudinary when a cloud name is configured and the
// in-memory store otherwise.
func newStorage(cfg *config.Config, logger *slog.Logger) storage.Storage {
	if cfg.CloudinaryCloudName != "" {
		logger.Info("using cloudinary media store", slog.String("cloud", cfg.CloudinaryCloudName))
		return cloudinary.New(cloudinary.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		}, logger)
	}

	baseURL := cfg.MediaBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
	}
	logger.Warn("CLOUDINARY_CLOUD_NAME not set, media is kept in memory")
	return memory.New(baseURL)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.loginLimiter.Close()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

// Command seedcatalog loads a deterministic demo catalog of categories,
// brands, vendors and products into the database. Rows that already exist
// are kept, so it can be re-run safely.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/auth"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/config"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository/postgres"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/seed"
	"github.com/awaisahmed1123/hadeedcart-backend/migrations"
	pkgconfig "github.com/awaisahmed1123/hadeedcart-backend/pkg/config"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/logger"
)

type seedConfig struct {
	Products       int    `env:"SEED_PRODUCTS" envDefault:"1000"`
	RandomSeed     uint64 `env:"SEED_RANDOM" envDefault:"42"`
	VendorPassword string `env:"SEED_VENDOR_PASSWORD" envDefault:"vendor123"`
	Workers        int    `env:"SEED_WORKERS" envDefault:"8"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var sc seedConfig
	if err := pkgconfig.Load(&sc); err != nil {
		slog.Error("failed to load seed config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("hadeedcart-seedcatalog", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	if err := run(ctx, cfg, sc, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete", slog.Duration("took", time.Since(start)))
}

func run(ctx context.Context, cfg *config.Config, sc seedConfig, log *slog.Logger) error {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	catalog := seed.Generate(sc.Products, sc.RandomSeed, time.Now())
	log.Info("generated catalog",
		slog.Int("categories", len(catalog.Categories)),
		slog.Int("brands", len(catalog.Brands)),
		slog.Int("vendors", len(catalog.Vendors)),
		slog.Int("products", len(catalog.Products)),
	)

	// ids maps generated ids to the ids of rows that already existed by name.
	ids := make(map[string]string)

	categories := postgres.NewCategoryRepository(pool)
	for _, c := range catalog.Categories {
		if c.Parent != nil {
			parent := ids[*c.Parent]
			c.Parent = &parent
		}
		existing, err := categories.GetByName(ctx, c.Name)
		if err == nil {
			ids[c.ID] = existing.ID
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("look up category %q: %w", c.Name, err)
		}
		if err := categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
		ids[c.ID] = c.ID
	}

	brands := postgres.NewBrandRepository(pool)
	for _, b := range catalog.Brands {
		existing, err := brands.GetByName(ctx, b.Name)
		if err == nil {
			ids[b.ID] = existing.ID
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("look up brand %q: %w", b.Name, err)
		}
		if err := brands.Create(ctx, &b); err != nil {
			return fmt.Errorf("create brand %q: %w", b.Name, err)
		}
		ids[b.ID] = b.ID
	}

	hash, err := auth.NewHasher(auth.DefaultBcryptCost).Hash(sc.VendorPassword)
	if err != nil {
		return fmt.Errorf("hash vendor password: %w", err)
	}
	vendors := postgres.NewVendorRepository(pool)
	for _, v := range catalog.Vendors {
		existing, err := vendors.GetByShopName(ctx, v.ShopName)
		if err == nil {
			ids[v.ID] = existing.ID
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("look up vendor %q: %w", v.ShopName, err)
		}
		v.PasswordHash = hash
		if err := vendors.Create(ctx, &v); err != nil {
			return fmt.Errorf("create vendor %q: %w", v.ShopName, err)
		}
		ids[v.ID] = v.ID
	}

	return insertProducts(ctx, postgres.NewProductRepository(pool), catalog.Products, ids, sc.Workers, log)
}

func insertProducts(ctx context.Context, repo *postgres.ProductRepository, products []domain.Product, ids map[string]string, workers int, log *slog.Logger) error {
	var inserted, skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range products {
		p := &products[i]
		p.Category = ids[p.Category]
		p.Brand = ids[p.Brand]
		p.VendorID = ids[p.VendorID]

		g.Go(func() error {
			if _, err := repo.GetByID(ctx, p.ID); err == nil {
				skipped.Add(1)
				return nil
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("look up product %s: %w", p.ID, err)
			}
			if err := repo.Create(ctx, p); err != nil {
				if errors.Is(err, apperrors.ErrAlreadyExists) {
					skipped.Add(1)
					return nil
				}
				return fmt.Errorf("create product %q: %w", p.Name, err)
			}
			if n := inserted.Add(1); n%500 == 0 {
				log.Info("products inserted", slog.Int64("count", n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("products loaded",
		slog.Int64("inserted", inserted.Load()),
		slog.Int64("skipped", skipped.Load()),
	)
	return nil
}

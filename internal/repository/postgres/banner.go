package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/database"
)

const bannerColumns = `id::text, image, type, link, is_active, created_at`

// BannerRepository implements repository.BannerRepository using PostgreSQL.
type BannerRepository struct {
	db database.DBTX
}

// NewBannerRepository creates a new PostgreSQL-backed banner repository.
func NewBannerRepository(db database.DBTX) *BannerRepository {
	return &BannerRepository{db: db}
}

var _ repository.BannerRepository = (*BannerRepository)(nil)

// Create inserts a new banner.
func (r *BannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	image, err := marshalJSON("banner image", b.Image)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO banners (id, image, type, link, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, image, string(b.Type), b.Link, b.IsActive, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

// GetByID retrieves a banner by its ID.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("banner", id)
	}
	b, err := scanBanner(r.db.QueryRow(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("banner", id)
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return b, nil
}

// ListActive returns active banners newest first.
func (r *BannerRepository) ListActive(ctx context.Context) ([]domain.Banner, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bannerColumns+` FROM banners WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	banners := []domain.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banner rows: %w", err)
	}
	return banners, nil
}

// Delete removes a banner.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("banner", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("banner", id)
	}
	return nil
}

func scanBanner(row scanner) (*domain.Banner, error) {
	var (
		b     domain.Banner
		image []byte
		typ   string
	)
	if err := row.Scan(&b.ID, &image, &typ, &b.Link, &b.IsActive, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Type = domain.BannerType(typ)
	if err := unmarshalJSON("banner image", image, &b.Image); err != nil {
		return nil, err
	}
	return &b, nil
}

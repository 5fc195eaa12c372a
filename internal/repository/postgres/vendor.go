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

const vendorColumns = `id::text, name, email, password_hash, shop_name, phone, address, cnic,
	shop_logo, account_status, created_at, updated_at`

// VendorRepository implements repository.VendorRepository using PostgreSQL.
type VendorRepository struct {
	db database.DBTX
}

// NewVendorRepository creates a new PostgreSQL-backed vendor repository.
func NewVendorRepository(db database.DBTX) *VendorRepository {
	return &VendorRepository{db: db}
}

var _ repository.VendorRepository = (*VendorRepository)(nil)

// Create inserts a new vendor.
func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	logo, err := imageJSON("shop logo", v.ShopLogo)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO vendors (id, name, email, password_hash, shop_name, phone, address, cnic,
			shop_logo, account_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		v.ID, v.Name, v.Email, v.PasswordHash, v.ShopName, v.Phone, v.Address, v.CNIC,
		logo, string(v.AccountStatus), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "vendors_email_key"):
			return apperrors.AlreadyExists("vendor", "email", v.Email)
		case database.IsUniqueViolation(err, "vendors_shop_name_key"):
			return apperrors.AlreadyExists("vendor", "shopName", v.ShopName)
		case database.IsUniqueViolation(err, "vendors_cnic_key"):
			return apperrors.AlreadyExists("vendor", "cnic", *v.CNIC)
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID retrieves a vendor by its ID.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("vendor", id)
	}
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByShopName retrieves a vendor by case-insensitive shop name.
func (r *VendorRepository) GetByShopName(ctx context.Context, shopName string) (*domain.Vendor, error) {
	return r.get(ctx, `WHERE lower(shop_name) = lower($1)`, shopName)
}

func (r *VendorRepository) get(ctx context.Context, where, arg string) (*domain.Vendor, error) {
	v, err := scanVendor(r.db.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("vendor", arg)
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// List returns vendors newest first.
func (r *VendorRepository) List(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		vendors = append(vendors, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}
	return vendors, nil
}

// UpdateStatus sets the account status and returns the updated vendor.
func (r *VendorRepository) UpdateStatus(ctx context.Context, id string, status domain.VendorStatus) (*domain.Vendor, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("vendor", id)
	}
	v, err := scanVendor(r.db.QueryRow(ctx,
		`UPDATE vendors SET account_status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+vendorColumns,
		id, string(status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("vendor", id)
		}
		return nil, fmt.Errorf("update vendor status: %w", err)
	}
	return v, nil
}

// Delete removes a vendor.
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("vendor", id)
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Conflict("vendor still owns products")
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("vendor", id)
	}
	return nil
}

func scanVendor(row scanner) (*domain.Vendor, error) {
	var (
		v      domain.Vendor
		logo   []byte
		status string
	)
	if err := row.Scan(&v.ID, &v.Name, &v.Email, &v.PasswordHash, &v.ShopName, &v.Phone, &v.Address,
		&v.CNIC, &logo, &status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.AccountStatus = domain.VendorStatus(status)
	if err := unmarshalJSON("shop logo", logo, &v.ShopLogo); err != nil {
		return nil, err
	}
	return &v, nil
}

package domain

import "time"

// VendorStatus is the account state of a vendor shop.
type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "Pending"
	VendorStatusApproved  VendorStatus = "Approved"
	VendorStatusSuspended VendorStatus = "Suspended"
)

// IsValidVendorStatus reports whether s is a known vendor status.
func IsValidVendorStatus(s VendorStatus) bool {
	switch s {
	case VendorStatusPending, VendorStatusApproved, VendorStatusSuspended:
		return true
	}
	return false
}

// Vendor is a shop selling through the storefront.
type Vendor struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"`
	ShopName      string       `json:"shopName"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	CNIC          *string      `json:"cnic,omitempty"`
	ShopLogo      *Image       `json:"shopLogo,omitempty"`
	AccountStatus VendorStatus `json:"accountStatus"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

package domain

import (
	"slices"
	"time"
)

// Permission grants access to one area of the admin panel.
type Permission string

const (
	PermViewDashboard    Permission = "view_dashboard"
	PermManageProducts   Permission = "manage_products"
	PermManageCategories Permission = "manage_categories"
	PermManageBrands     Permission = "manage_brands"
	PermManageVendors    Permission = "manage_vendors"
	PermManageOrders     Permission = "manage_orders"
	PermManageEmployees  Permission = "manage_employees"
)

// AllPermissions lists every permission in display order.
func AllPermissions() []Permission {
	return []Permission{
		PermViewDashboard,
		PermManageProducts,
		PermManageCategories,
		PermManageBrands,
		PermManageVendors,
		PermManageOrders,
		PermManageEmployees,
	}
}

// IsValidPermission reports whether p is a known permission.
func IsValidPermission(p Permission) bool {
	return slices.Contains(AllPermissions(), p)
}

// Role separates full administrators from scoped staff.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

// EmployeeStatus controls whether an employee may sign in.
type EmployeeStatus string

const (
	EmployeeStatusActive    EmployeeStatus = "Active"
	EmployeeStatusSuspended EmployeeStatus = "Suspended"
)

// Employee is an admin panel user.
type Employee struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Permissions  []Permission   `json:"permissions"`
	Role         Role           `json:"role"`
	Status       EmployeeStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PermissionStrings returns the permissions as plain strings for token claims.
func (e *Employee) PermissionStrings() []string {
	out := make([]string, len(e.Permissions))
	for i, p := range e.Permissions {
		out[i] = string(p)
	}
	return out
}

package domain

import "time"

// AddressType labels a customer address.
type AddressType string

const (
	AddressTypeHome AddressType = "Home"
	AddressTypeWork AddressType = "Work"
)

// DefaultCountry is assumed when an address omits one.
const DefaultCountry = "Pakistan"

// Address is a customer shipping address.
type Address struct {
	AddressType AddressType `json:"addressType"`
	Street      string      `json:"street"`
	City        string      `json:"city"`
	PostalCode  string      `json:"postalCode"`
	Country     string      `json:"country"`
}

// Customer is a storefront shopper account.
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Addresses    []Address `json:"addresses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

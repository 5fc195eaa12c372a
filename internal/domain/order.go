package domain

import "time"

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line of an order, priced at checkout time.
type OrderItem struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// OrderCustomer is the customer summary joined into order listings.
type OrderCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Order is a customer purchase.
type Order struct {
	ID              string        `json:"id"`
	User            OrderCustomer `json:"user"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
	TotalPrice      float64       `json:"totalPrice"`
	OrderStatus     OrderStatus   `json:"orderStatus"`
	IsDelivered     bool          `json:"isDelivered"`
	DeliveredAt     *time.Time    `json:"deliveredAt"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// SetStatus moves the order to s. Delivered stamps the delivery time; any
// other status clears it.
func (o *Order) SetStatus(s OrderStatus, now time.Time) {
	o.OrderStatus = s
	if s == OrderStatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
		return
	}
	o.IsDelivered = false
	o.DeliveredAt = nil
}

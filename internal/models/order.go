package models

import "time"

// Order status values. The set is closed: PENDING_PAYMENT is the only
// initial state, CONFIRMED and CANCELLED are terminal.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusConfirmed      = "CONFIRMED"
	StatusCancelled      = "CANCELLED"
)

// ValidStatus reports whether s belongs to the closed order-status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	TotalCents int64       `json:"total_cents"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

type CreateOrderRequest struct {
	CustomerID string                   `json:"customer_id" binding:"required"`
	Items      []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

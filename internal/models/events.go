package models

import "time"

// Payment outcome values carried inside PaymentProcessedEvent. They pick
// the routing key the event is published with.
const (
	PaymentConfirmed = "confirmed"
	PaymentFailed    = "failed"
)

// OrderCreatedEvent starts the fulfillment saga. It fans out to the stock
// validation and payment processing queues.
type OrderCreatedEvent struct {
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	TotalCents int64            `json:"total_cents"`
	Items      []OrderItemEvent `json:"items"`
	CreatedAt  time.Time        `json:"created_at"`
}

type OrderItemEvent struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// PaymentProcessedEvent reports the payment outcome for an order.
type PaymentProcessedEvent struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
	Message     string    `json:"message"`
}

// StockValidatedEvent reports whether every line item of an order had
// sufficient stock at validation time.
type StockValidatedEvent struct {
	OrderID     string           `json:"order_id"`
	IsValid     bool             `json:"is_valid"`
	ValidatedAt time.Time        `json:"validated_at"`
	Items       []OrderItemEvent `json:"items"`
}

// NewOrderCreatedEvent builds the saga-initiating event from a stored order.
func NewOrderCreatedEvent(order *Order) OrderCreatedEvent {
	event := OrderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderItemEvent{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return event
}

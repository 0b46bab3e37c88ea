package consumer

import (
	"context"
	"log"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one delivery. A non-nil error rejects the message.
type Handler func(ctx context.Context, msg amqp.Delivery) error

// OrderStore is the slice of the order repository the saga needs.
type OrderStore interface {
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id, status string) error
}

// ProductStore is the slice of the product repository the saga needs.
type ProductStore interface {
	CheckStock(ctx context.Context, productID string, quantity int) (bool, error)
	DebitStock(ctx context.Context, productID string, quantity int) error
	CreditStock(ctx context.Context, productID string, quantity int) error
}

// EventBus publishes saga outcome events.
type EventBus interface {
	PublishPaymentProcessed(event models.PaymentProcessedEvent) error
	PublishStockValidated(event models.StockValidatedEvent) error
}

// Run drains a delivery stream: each message is handed to the handler,
// acknowledged on success and rejected without requeue on failure. A
// poison message is dropped rather than redelivered forever; recovery is
// the saga's own cancellation path, not message-level retry. A handler
// failure never stops the loop.
func Run(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handle Handler) {
	for msg := range deliveries {
		if err := handle(ctx, msg); err != nil {
			log.Printf("❌ Failed to process message from %s: %v", queue, err)
			msg.Nack(false, false) // drop, never requeue
			continue
		}
		msg.Ack(false)
	}
	log.Printf("👋 Consumer for %s stopped", queue)
}

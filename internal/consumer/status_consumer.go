package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prudhivi99/ecommerce-saga-go/internal/messaging"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusConsumer resolves the final order status from payment outcomes. A
// confirmed payment debits stock for every line item and confirms the
// order; a failed payment cancels it. Stock validation events arrive on
// the same queue and are acknowledged without a status action, since the
// stock validator already cancelled invalid orders.
type StatusConsumer struct {
	orders   OrderStore
	products ProductStore
}

func NewStatusConsumer(orders OrderStore, products ProductStore) *StatusConsumer {
	return &StatusConsumer{
		orders:   orders,
		products: products,
	}
}

// Handle dispatches on the delivery's routing key.
func (c *StatusConsumer) Handle(ctx context.Context, msg amqp.Delivery) error {
	switch msg.RoutingKey {
	case messaging.KeyPaymentConfirmed, messaging.KeyPaymentFailed:
		var event models.PaymentProcessedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to parse payment processed event: %w", err)
		}
		return c.handlePaymentProcessed(ctx, event)

	case messaging.KeyStockValidated:
		var event models.StockValidatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to parse stock validated event: %w", err)
		}
		log.Printf("📋 Stock validation recorded for order %s (valid=%t)", event.OrderID, event.IsValid)
		return nil

	default:
		log.Printf("⚠️ Unexpected routing key on status queue: %s", msg.RoutingKey)
		return nil
	}
}

func (c *StatusConsumer) handlePaymentProcessed(ctx context.Context, event models.PaymentProcessedEvent) error {
	if event.Status != models.PaymentConfirmed {
		if err := c.orders.UpdateStatus(event.OrderID, models.StatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", event.OrderID, err)
		}
		log.Printf("🚫 Order %s cancelled: payment failed (%s)", event.OrderID, event.Message)
		return nil
	}

	order, err := c.orders.GetByID(event.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", event.OrderID, err)
	}

	// A debit failure leaves the order un-confirmed: stock consumed by a
	// concurrent order wins and this message is dropped.
	for _, item := range order.Items {
		if err := c.products.DebitStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to debit stock for product %s: %w", item.ProductID, err)
		}
		log.Printf("📉 Stock debited: product %s, quantity %d", item.ProductID, item.Quantity)
	}

	if err := c.orders.UpdateStatus(event.OrderID, models.StatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm order %s: %w", event.OrderID, err)
	}

	log.Printf("✅ Order %s confirmed", event.OrderID)
	return nil
}

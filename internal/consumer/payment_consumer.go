package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	"github.com/prudhivi99/ecommerce-saga-go/internal/payment"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PaymentConsumer runs the payment gateway against every new order and
// publishes the outcome. It reacts to the same order.created publication
// as the stock validator, with no ordering between the two.
type PaymentConsumer struct {
	gateway payment.Gateway
	bus     EventBus
}

func NewPaymentConsumer(gateway payment.Gateway, bus EventBus) *PaymentConsumer {
	return &PaymentConsumer{
		gateway: gateway,
		bus:     bus,
	}
}

// HandleOrderCreated charges the order. A gateway error is a failed
// payment outcome, not a consumer crash.
func (c *PaymentConsumer) HandleOrderCreated(ctx context.Context, msg amqp.Delivery) error {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to parse order created event: %w", err)
	}

	log.Printf("💳 Processing payment for order %s (%d cents)", event.OrderID, event.TotalCents)

	result, err := c.gateway.Process(ctx, event)
	if err != nil {
		log.Printf("⚠️ Payment gateway error for order %s: %v", event.OrderID, err)
		result = payment.Result{
			Status:  models.PaymentFailed,
			Message: "internal payment processing error",
		}
	}

	paymentEvent := models.PaymentProcessedEvent{
		OrderID:     event.OrderID,
		Status:      result.Status,
		ProcessedAt: time.Now().UTC(),
		Message:     result.Message,
	}

	if err := c.bus.PublishPaymentProcessed(paymentEvent); err != nil {
		return err
	}

	log.Printf("💳 Payment %s for order %s", result.Status, event.OrderID)
	return nil
}

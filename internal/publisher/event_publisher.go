package publisher

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/prudhivi99/ecommerce-saga-go/internal/messaging"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

// Broker is the slice of the connection manager the publisher needs.
// *messaging.RabbitMQ satisfies it.
type Broker interface {
	IsFallbackMode() bool
	Publish(exchange, routingKey string, body []byte) error
}

// EventPublisher serializes domain events and routes them to the right
// exchange/routing-key pair. In fallback mode every publish is a logged
// no-op and never returns an error.
type EventPublisher struct {
	broker Broker
}

func NewEventPublisher(broker Broker) *EventPublisher {
	return &EventPublisher{broker: broker}
}

// PublishOrderCreated publishes the saga-initiating event.
func (p *EventPublisher) PublishOrderCreated(event models.OrderCreatedEvent) error {
	if p.broker.IsFallbackMode() {
		log.Printf("🔇 ORDER_CREATED event simulated (fallback mode): order %s", event.OrderID)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	if err := p.broker.Publish(messaging.OrdersExchange, messaging.KeyOrderCreated, body); err != nil {
		return fmt.Errorf("failed to publish order created event: %w", err)
	}

	log.Printf("📤 ORDER_CREATED published: order %s", event.OrderID)
	return nil
}

// PublishPaymentProcessed routes by the embedded payment status:
// confirmed → payment.confirmed, anything else → payment.failed.
func (p *EventPublisher) PublishPaymentProcessed(event models.PaymentProcessedEvent) error {
	if p.broker.IsFallbackMode() {
		log.Printf("🔇 PAYMENT_PROCESSED event simulated (fallback mode): order %s status %s",
			event.OrderID, event.Status)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment processed event: %w", err)
	}

	routingKey := messaging.KeyPaymentFailed
	if event.Status == models.PaymentConfirmed {
		routingKey = messaging.KeyPaymentConfirmed
	}

	if err := p.broker.Publish(messaging.PaymentsExchange, routingKey, body); err != nil {
		return fmt.Errorf("failed to publish payment processed event: %w", err)
	}

	log.Printf("📤 PAYMENT_PROCESSED published: order %s status %s", event.OrderID, event.Status)
	return nil
}

// PublishStockValidated routes by the validation outcome:
// valid → stock.validated, invalid → stock.insufficient.
func (p *EventPublisher) PublishStockValidated(event models.StockValidatedEvent) error {
	if p.broker.IsFallbackMode() {
		log.Printf("🔇 STOCK_VALIDATED event simulated (fallback mode): order %s valid=%t",
			event.OrderID, event.IsValid)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stock validated event: %w", err)
	}

	routingKey := messaging.KeyStockInsufficient
	if event.IsValid {
		routingKey = messaging.KeyStockValidated
	}

	if err := p.broker.Publish(messaging.StockExchange, routingKey, body); err != nil {
		return fmt.Errorf("failed to publish stock validated event: %w", err)
	}

	log.Printf("📤 STOCK_VALIDATED published: order %s valid=%t", event.OrderID, event.IsValid)
	return nil
}

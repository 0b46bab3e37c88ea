package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StockConsumer validates stock availability for every new order. An
// invalid outcome cancels the order immediately: stock insufficiency is
// terminal regardless of how the concurrent payment attempt turns out.
type StockConsumer struct {
	orders   OrderStore
	products ProductStore
	bus      EventBus
}

func NewStockConsumer(orders OrderStore, products ProductStore, bus EventBus) *StockConsumer {
	return &StockConsumer{
		orders:   orders,
		products: products,
		bus:      bus,
	}
}

// HandleOrderCreated validates each line item and publishes the outcome.
// A store failure during validation counts as invalid rather than
// crashing the consumer.
func (c *StockConsumer) HandleOrderCreated(ctx context.Context, msg amqp.Delivery) error {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to parse order created event: %w", err)
	}

	log.Printf("🔍 Validating stock for order %s", event.OrderID)

	valid := true
	for _, item := range event.Items {
		ok, err := c.products.CheckStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			log.Printf("⚠️ Stock check failed for product %s: %v", item.ProductID, err)
			valid = false
			break
		}
		if !ok {
			log.Printf("⚠️ Insufficient stock: product %s, requested %d", item.ProductID, item.Quantity)
			valid = false
			break
		}
	}

	stockEvent := models.StockValidatedEvent{
		OrderID:     event.OrderID,
		IsValid:     valid,
		ValidatedAt: time.Now().UTC(),
		Items:       event.Items,
	}

	if err := c.bus.PublishStockValidated(stockEvent); err != nil {
		return err
	}

	if !valid {
		if err := c.orders.UpdateStatus(event.OrderID, models.StatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", event.OrderID, err)
		}
		log.Printf("🚫 Order %s cancelled: insufficient stock", event.OrderID)
	}

	return nil
}

// CreditOrderStock returns every line item's quantity to stock. Kept for
// operational use when a confirmed order has to be undone by hand.
func (c *StockConsumer) CreditOrderStock(ctx context.Context, orderID string) error {
	order, err := c.orders.GetByID(orderID)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := c.products.CreditStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to credit stock for product %s: %w", item.ProductID, err)
		}
		log.Printf("↩️ Stock credited: product %s, quantity %d", item.ProductID, item.Quantity)
	}

	return nil
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

func orderCreatedDelivery(t *testing.T, event models.OrderCreatedEvent) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp.Delivery{Body: body}
}

func TestStockConsumerValidOrder(t *testing.T) {
	orders := newFakeOrders(&models.Order{ID: "order-1", Status: models.StatusPendingPayment})
	products := newFakeProducts(map[string]int{"p1": 10, "p2": 5})
	bus := &fakeBus{}
	c := NewStockConsumer(orders, products, bus)

	event := models.OrderCreatedEvent{
		OrderID:   "order-1",
		CreatedAt: time.Now().UTC(),
		Items: []models.OrderItemEvent{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}

	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	require.NoError(t, err)

	require.Len(t, bus.stockEvents, 1)
	assert.Equal(t, "order-1", bus.stockEvents[0].OrderID)
	assert.True(t, bus.stockEvents[0].IsValid)
	assert.Empty(t, orders.statusWrites, "a valid order must not change status here")
	assert.Empty(t, products.debits, "validation must not consume stock")
}

func TestStockConsumerInsufficientStockCancelsOrder(t *testing.T) {
	orders := newFakeOrders(&models.Order{ID: "order-1", Status: models.StatusPendingPayment})
	products := newFakeProducts(map[string]int{"p1": 3})
	bus := &fakeBus{}
	c := NewStockConsumer(orders, products, bus)

	event := models.OrderCreatedEvent{
		OrderID: "order-1",
		Items:   []models.OrderItemEvent{{ProductID: "p1", Quantity: 5}},
	}

	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	require.NoError(t, err)

	require.Len(t, bus.stockEvents, 1)
	assert.False(t, bus.stockEvents[0].IsValid)
	assert.Equal(t, models.StatusCancelled, orders.statusWrites["order-1"])
}

func TestStockConsumerStoreErrorCountsAsInvalid(t *testing.T) {
	orders := newFakeOrders(&models.Order{ID: "order-1", Status: models.StatusPendingPayment})
	products := newFakeProducts(map[string]int{"p1": 10})
	products.checkErr = errors.New("db unavailable")
	bus := &fakeBus{}
	c := NewStockConsumer(orders, products, bus)

	event := models.OrderCreatedEvent{
		OrderID: "order-1",
		Items:   []models.OrderItemEvent{{ProductID: "p1", Quantity: 1}},
	}

	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	require.NoError(t, err)

	require.Len(t, bus.stockEvents, 1)
	assert.False(t, bus.stockEvents[0].IsValid)
	assert.Equal(t, models.StatusCancelled, orders.statusWrites["order-1"])
}

func TestStockConsumerMalformedEvent(t *testing.T) {
	c := NewStockConsumer(newFakeOrders(), newFakeProducts(nil), &fakeBus{})

	err := c.HandleOrderCreated(context.Background(), amqp.Delivery{Body: []byte("not json")})
	assert.Error(t, err)
}

func TestStockConsumerPublishErrorPropagates(t *testing.T) {
	orders := newFakeOrders(&models.Order{ID: "order-1", Status: models.StatusPendingPayment})
	products := newFakeProducts(map[string]int{"p1": 10})
	bus := &fakeBus{stockErr: errors.New("broker gone")}
	c := NewStockConsumer(orders, products, bus)

	event := models.OrderCreatedEvent{
		OrderID: "order-1",
		Items:   []models.OrderItemEvent{{ProductID: "p1", Quantity: 1}},
	}

	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	assert.Error(t, err)
}

func TestCreditOrderStock(t *testing.T) {
	orders := newFakeOrders(&models.Order{
		ID: "order-1",
		Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	products := newFakeProducts(map[string]int{"p1": 0, "p2": 0})
	c := NewStockConsumer(orders, products, &fakeBus{})

	err := c.CreditOrderStock(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, 2, products.credits["p1"])
	assert.Equal(t, 1, products.credits["p2"])
}

package consumer

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
	"github.com/prudhivi99/ecommerce-saga-go/internal/payment"
)

type fakeGateway struct {
	result payment.Result
	err    error
}

func (f *fakeGateway) Process(ctx context.Context, event models.OrderCreatedEvent) (payment.Result, error) {
	return f.result, f.err
}

func TestPaymentConsumerConfirmed(t *testing.T) {
	gateway := &fakeGateway{result: payment.Result{Status: models.PaymentConfirmed, Message: "payment approved"}}
	bus := &fakeBus{}
	c := NewPaymentConsumer(gateway, bus)

	event := models.OrderCreatedEvent{OrderID: "order-1", TotalCents: 13000}
	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	require.NoError(t, err)

	require.Len(t, bus.paymentEvents, 1)
	assert.Equal(t, "order-1", bus.paymentEvents[0].OrderID)
	assert.Equal(t, models.PaymentConfirmed, bus.paymentEvents[0].Status)
	assert.False(t, bus.paymentEvents[0].ProcessedAt.IsZero())
}

func TestPaymentConsumerGatewayErrorIsFailedOutcome(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("gateway timeout")}
	bus := &fakeBus{}
	c := NewPaymentConsumer(gateway, bus)

	event := models.OrderCreatedEvent{OrderID: "order-1"}
	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, event))
	require.NoError(t, err, "a gateway error must become a failed payment, not a consumer crash")

	require.Len(t, bus.paymentEvents, 1)
	assert.Equal(t, models.PaymentFailed, bus.paymentEvents[0].Status)
	assert.Equal(t, "internal payment processing error", bus.paymentEvents[0].Message)
}

func TestPaymentConsumerPublishErrorPropagates(t *testing.T) {
	gateway := &fakeGateway{result: payment.Result{Status: models.PaymentConfirmed}}
	bus := &fakeBus{paymentErr: errors.New("broker gone")}
	c := NewPaymentConsumer(gateway, bus)

	err := c.HandleOrderCreated(context.Background(), orderCreatedDelivery(t, models.OrderCreatedEvent{OrderID: "order-1"}))
	assert.Error(t, err)
}

func TestPaymentConsumerMalformedEvent(t *testing.T) {
	c := NewPaymentConsumer(&fakeGateway{}, &fakeBus{})

	err := c.HandleOrderCreated(context.Background(), amqp.Delivery{Body: []byte("not json")})
	assert.Error(t, err)
}

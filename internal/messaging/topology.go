package messaging

// Exchanges. All are direct and durable.
const (
	OrdersExchange   = "orders.exchange"
	PaymentsExchange = "payments.exchange"
	StockExchange    = "stock.exchange"
)

// Queues. All durable.
const (
	OrderCreatedQueue      = "order.created.queue"
	PaymentProcessingQueue = "payment.processing.queue"
	StockValidationQueue   = "stock.validation.queue"
	OrderStatusUpdateQueue = "order.status.update.queue"
)

// Routing keys.
const (
	KeyOrderCreated      = "order.created"
	KeyPaymentConfirmed  = "payment.confirmed"
	KeyPaymentFailed     = "payment.failed"
	KeyStockValidated    = "stock.validated"
	KeyStockInsufficient = "stock.insufficient"
)

// Topology abstracts the declaration primitives so the static layout can
// be tested without a broker. *RabbitMQ satisfies it.
type Topology interface {
	AssertExchange(name string) error
	AssertQueue(name string) error
	BindQueue(queue, exchange, routingKey string) error
}

// SetupTopology declares the complete exchange/queue/binding layout. The
// payment and stock queues share the order.created routing key so both
// saga participants receive every new order independently. Declaration is
// idempotent: the broker accepts re-declaring identical infrastructure.
func SetupTopology(t Topology) error {
	exchanges := []string{OrdersExchange, PaymentsExchange, StockExchange}
	for _, exchange := range exchanges {
		if err := t.AssertExchange(exchange); err != nil {
			return err
		}
	}

	queues := []string{
		OrderCreatedQueue,
		PaymentProcessingQueue,
		StockValidationQueue,
		OrderStatusUpdateQueue,
	}
	for _, queue := range queues {
		if err := t.AssertQueue(queue); err != nil {
			return err
		}
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{OrderCreatedQueue, OrdersExchange, KeyOrderCreated},
		{PaymentProcessingQueue, OrdersExchange, KeyOrderCreated},
		{StockValidationQueue, OrdersExchange, KeyOrderCreated},
		{OrderStatusUpdateQueue, PaymentsExchange, KeyPaymentConfirmed},
		{OrderStatusUpdateQueue, PaymentsExchange, KeyPaymentFailed},
		{OrderStatusUpdateQueue, StockExchange, KeyStockValidated},
	}
	for _, b := range bindings {
		if err := t.BindQueue(b.queue, b.exchange, b.routingKey); err != nil {
			return err
		}
	}

	return nil
}

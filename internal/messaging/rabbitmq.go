package messaging

import (
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConnected is returned when a channel is requested before Connect
// succeeded and fallback mode is not active.
var ErrNotConnected = errors.New("rabbitmq not connected")

// RabbitMQ owns the single connection and channel shared by every
// publisher and consumer. When the broker is unreachable at Connect time
// it switches to fallback mode: every messaging operation becomes a logged
// no-op so the HTTP-facing services keep working with messaging disabled.
type RabbitMQ struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	active   bool
	fallback bool
	url      string
}

func NewRabbitMQ(host string, port int, user, password string) *RabbitMQ {
	return &RabbitMQ{
		url: fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port),
	}
}

// Connect dials the broker. It is idempotent: a second call while connected
// is a no-op. A dial or channel failure does not return an error; the
// manager enters fallback mode instead. There is no automatic reconnect,
// a broker-side error or close only flips the connected flag.
func (r *RabbitMQ) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		log.Println("🐇 RabbitMQ already connected")
		return nil
	}

	conn, err := amqp.Dial(r.url)
	if err != nil {
		log.Printf("⚠️ RabbitMQ unreachable, entering fallback mode: %v", err)
		r.fallback = true
		return nil
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		log.Printf("⚠️ Failed to open channel, entering fallback mode: %v", err)
		r.fallback = true
		return nil
	}

	r.conn = conn
	r.channel = channel
	r.active = true
	r.fallback = false

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err := <-closed; err != nil {
			log.Printf("❌ RabbitMQ connection error: %v", err)
		} else {
			log.Println("🐇 RabbitMQ connection closed")
		}
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
	}()

	log.Println("✅ Connected to RabbitMQ")
	return nil
}

// Disconnect releases the channel then the connection, tolerating either
// being already gone. Teardown failures are returned, not swallowed.
func (r *RabbitMQ) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		if err := r.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("failed to close channel: %w", err)
		}
		r.channel = nil
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		r.conn = nil
	}

	r.active = false
	log.Println("🐇 Disconnected from RabbitMQ")
	return nil
}

// Channel returns the live channel. Callers must check IsFallbackMode
// first; in fallback mode there is no channel to hand out.
func (r *RabbitMQ) Channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active || r.channel == nil {
		return nil, ErrNotConnected
	}
	return r.channel, nil
}

// IsConnectionActive reports whether the broker connection is live.
func (r *RabbitMQ) IsConnectionActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// IsFallbackMode reports whether messaging operations are simulated no-ops.
func (r *RabbitMQ) IsFallbackMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback
}

// AssertExchange declares a durable direct exchange. Re-declaring an
// existing exchange with identical parameters succeeds silently.
func (r *RabbitMQ) AssertExchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallback {
		log.Printf("🔇 Exchange %s declaration skipped (fallback mode)", name)
		return nil
	}
	if !r.active || r.channel == nil {
		return ErrNotConnected
	}

	err := r.channel.ExchangeDeclare(
		name,     // exchange name
		"direct", // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}

	log.Printf("✅ Exchange declared: %s", name)
	return nil
}

// AssertQueue declares a durable queue.
func (r *RabbitMQ) AssertQueue(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallback {
		log.Printf("🔇 Queue %s declaration skipped (fallback mode)", name)
		return nil
	}
	if !r.active || r.channel == nil {
		return ErrNotConnected
	}

	_, err := r.channel.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	log.Printf("✅ Queue declared: %s", name)
	return nil
}

// BindQueue binds a queue to an exchange under a routing key.
func (r *RabbitMQ) BindQueue(queue, exchange, routingKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallback {
		log.Printf("🔇 Binding %s → %s skipped (fallback mode)", queue, exchange)
		return nil
	}
	if !r.active || r.channel == nil {
		return ErrNotConnected
	}

	if err := r.channel.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to %s: %w", queue, exchange, err)
	}

	log.Printf("✅ Queue %s bound to %s (key %s)", queue, exchange, routingKey)
	return nil
}

// Publish sends a persistent JSON message to an exchange/routing-key pair.
// The mutex serializes publishes over the shared channel. In fallback mode
// the message is dropped with a log line.
func (r *RabbitMQ) Publish(exchange, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallback {
		log.Printf("🔇 Publish to %s (key %s) simulated (fallback mode)", exchange, routingKey)
		return nil
	}
	if !r.active || r.channel == nil {
		return ErrNotConnected
	}

	err := r.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", exchange, err)
	}

	log.Printf("📤 Message published to %s (key %s)", exchange, routingKey)
	return nil
}

// Consume opens a manual-ack delivery stream for a queue. Consumers need a
// live broker; fallback mode is an error here, not a no-op.
func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallback || !r.active || r.channel == nil {
		return nil, ErrNotConnected
	}

	deliveries, err := r.channel.Consume(
		queue, // queue name
		"",    // consumer tag
		false, // auto-ack (false = manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}

	log.Printf("👂 Listening on queue: %s", queue)
	return deliveries, nil
}

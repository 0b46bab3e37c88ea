package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

// Result is the outcome of a payment attempt.
type Result struct {
	Status  string
	Message string
}

// Gateway processes a payment for a created order. The simulator below is
// a stand-in for a real payment provider integration.
type Gateway interface {
	Process(ctx context.Context, event models.OrderCreatedEvent) (Result, error)
}

// Simulator approves payments with a fixed probability after a fixed
// delay. The generator sits behind a mutex because consumers may process
// orders concurrently.
type Simulator struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	delay       time.Duration
}

func NewSimulator(successRate float64, delay time.Duration) *Simulator {
	return &Simulator{
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: successRate,
		delay:       delay,
	}
}

// Process waits for the configured delay, then draws the outcome.
func (s *Simulator) Process(ctx context.Context, event models.OrderCreatedEvent) (Result, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	s.mu.Lock()
	approved := s.random.Float64() < s.successRate
	s.mu.Unlock()

	if approved {
		return Result{
			Status:  models.PaymentConfirmed,
			Message: "payment processed successfully",
		}, nil
	}
	return Result{
		Status:  models.PaymentFailed,
		Message: "payment rejected by the issuer",
	}, nil
}

// SuccessRate exposes the configured approval probability.
func (s *Simulator) SuccessRate() float64 { return s.successRate }

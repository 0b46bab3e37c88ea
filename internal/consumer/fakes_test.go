package consumer

import (
	"context"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type fakeAck struct {
	acked       bool
	nacked      bool
	nackRequeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.nackRequeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.nackRequeue = requeue
	return nil
}

type fakeOrders struct {
	orders       map[string]*models.Order
	getErr       error
	updateErr    error
	statusWrites map[string]string
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{
		orders:       make(map[string]*models.Order),
		statusWrites: make(map[string]string),
	}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) GetByID(id string) (*models.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrders) UpdateStatus(id, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusWrites[id] = status
	if order, ok := f.orders[id]; ok {
		order.Status = status
	}
	return nil
}

type fakeProducts struct {
	stock    map[string]int
	checkErr error
	debitErr error
	debits   map[string]int
	credits  map[string]int
}

func newFakeProducts(stock map[string]int) *fakeProducts {
	return &fakeProducts{
		stock:   stock,
		debits:  make(map[string]int),
		credits: make(map[string]int),
	}
}

func (f *fakeProducts) CheckStock(ctx context.Context, productID string, quantity int) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	available, ok := f.stock[productID]
	if !ok {
		return false, models.ErrNotFound
	}
	return available >= quantity, nil
}

func (f *fakeProducts) DebitStock(ctx context.Context, productID string, quantity int) error {
	if f.debitErr != nil {
		return f.debitErr
	}
	if f.stock[productID] < quantity {
		return models.ErrInsufficientStock
	}
	f.stock[productID] -= quantity
	f.debits[productID] += quantity
	return nil
}

func (f *fakeProducts) CreditStock(ctx context.Context, productID string, quantity int) error {
	f.stock[productID] += quantity
	f.credits[productID] += quantity
	return nil
}

type fakeBus struct {
	paymentEvents []models.PaymentProcessedEvent
	stockEvents   []models.StockValidatedEvent
	paymentErr    error
	stockErr      error
}

func (f *fakeBus) PublishPaymentProcessed(event models.PaymentProcessedEvent) error {
	if f.paymentErr != nil {
		return f.paymentErr
	}
	f.paymentEvents = append(f.paymentEvents, event)
	return nil
}

func (f *fakeBus) PublishStockValidated(event models.StockValidatedEvent) error {
	if f.stockErr != nil {
		return f.stockErr
	}
	f.stockEvents = append(f.stockEvents, event)
	return nil
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

type fakeOrderStore struct {
	orders    map[string]*models.Order
	created   []*models.Order
	createErr error
	listErr   error
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	f := &fakeOrderStore{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderStore) Create(order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.NewString()
	f.orders[order.ID] = order
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderStore) GetByID(id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) List(page, limit int, customerID, status string) ([]models.Order, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Order
	for _, o := range f.orders {
		if customerID != "" && o.CustomerID != customerID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeOrderStore) UpdateStatus(id, status string) error {
	if !models.ValidStatus(status) {
		return models.ErrInvalidStatus
	}
	order, ok := f.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	order.Status = status
	return nil
}

type fakeProductStore struct {
	products  map[string]*models.Product
	createErr error
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetAll(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductStore) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Description: req.Description,
	}
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) CheckStock(ctx context.Context, productID string, quantity int) (bool, error) {
	product, ok := f.products[productID]
	if !ok {
		return false, models.ErrNotFound
	}
	return product.Stock >= quantity, nil
}

type fakeCustomerStore struct {
	customers map[string]*models.Customer
	createErr error
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	f := &fakeCustomerStore{customers: make(map[string]*models.Customer)}
	for _, c := range customers {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomerStore) Create(req models.CreateCustomerRequest) (*models.Customer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	customer := &models.Customer{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Document: req.Document,
	}
	f.customers[customer.ID] = customer
	return customer, nil
}

func (f *fakeCustomerStore) GetByID(id string) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return customer, nil
}

func (f *fakeCustomerStore) GetAll() ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

type fakeEventBus struct {
	orderEvents   []models.OrderCreatedEvent
	paymentEvents []models.PaymentProcessedEvent
	orderErr      error
	paymentErr    error
}

func (f *fakeEventBus) PublishOrderCreated(event models.OrderCreatedEvent) error {
	if f.orderErr != nil {
		return f.orderErr
	}
	f.orderEvents = append(f.orderEvents, event)
	return nil
}

func (f *fakeEventBus) PublishPaymentProcessed(event models.PaymentProcessedEvent) error {
	if f.paymentErr != nil {
		return f.paymentErr
	}
	f.paymentEvents = append(f.paymentEvents, event)
	return nil
}

type fakeBrokerStatus struct {
	active   bool
	fallback bool
}

func (f *fakeBrokerStatus) IsConnectionActive() bool { return f.active }
func (f *fakeBrokerStatus) IsFallbackMode() bool     { return f.fallback }

func http200(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

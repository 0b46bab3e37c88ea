package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

// Store slices consumed by the handlers. The db repositories satisfy them;
// tests swap in fakes.

type OrderStore interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	List(page, limit int, customerID, status string) ([]models.Order, int, error)
	UpdateStatus(id, status string) error
}

type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	CheckStock(ctx context.Context, productID string, quantity int) (bool, error)
}

type CustomerStore interface {
	Create(req models.CreateCustomerRequest) (*models.Customer, error)
	GetByID(id string) (*models.Customer, error)
	GetAll() ([]models.Customer, error)
}

type EventBus interface {
	PublishOrderCreated(event models.OrderCreatedEvent) error
	PublishPaymentProcessed(event models.PaymentProcessedEvent) error
}

// BrokerStatus exposes connectivity for the health endpoint.
type BrokerStatus interface {
	IsConnectionActive() bool
	IsFallbackMode() bool
}

// respondError maps domain sentinels onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInsufficientStock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateCustomer),
		errors.Is(err, models.ErrNotPendingPayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

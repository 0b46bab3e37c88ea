package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type CustomerHandler struct {
	customers CustomerStore
}

func NewCustomerHandler(customers CustomerStore) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers returns all customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns a single customer
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer registers a new customer with unique email and document.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

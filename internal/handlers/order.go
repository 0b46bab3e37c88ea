package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type OrderHandler struct {
	orders    OrderStore
	products  ProductStore
	customers CustomerStore
	bus       EventBus
	pageLimit int
	maxLimit  int
}

func NewOrderHandler(orders OrderStore, products ProductStore, customers CustomerStore, bus EventBus, pageLimit, maxLimit int) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		products:  products,
		customers: customers,
		bus:       bus,
		pageLimit: pageLimit,
		maxLimit:  maxLimit,
	}
}

// CreateOrder validates the customer and stock, persists the order as
// PENDING_PAYMENT, and publishes the saga-initiating event. A publish
// failure is logged but does not fail the request: the order exists, the
// saga simply never fires (fallback policy).
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.customers.GetByID(req.CustomerID); err != nil {
		respondError(c, fmt.Errorf("customer %s: %w", req.CustomerID, err))
		return
	}

	order := models.Order{
		CustomerID: req.CustomerID,
		Status:     models.StatusPendingPayment,
	}

	for _, item := range req.Items {
		product, err := h.products.GetByID(c.Request.Context(), item.ProductID)
		if err != nil {
			respondError(c, fmt.Errorf("product %s: %w", item.ProductID, err))
			return
		}

		ok, err := h.products.CheckStock(c.Request.Context(), item.ProductID, item.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ok {
			respondError(c, fmt.Errorf("product %s: %w", product.Name, models.ErrInsufficientStock))
			return
		}

		lineTotal := product.PriceCents * int64(item.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			TotalCents:     lineTotal,
		})
		order.TotalCents += lineTotal
	}

	if err := h.orders.Create(&order); err != nil {
		respondError(c, err)
		return
	}

	if err := h.bus.PublishOrderCreated(models.NewOrderCreatedEvent(&order)); err != nil {
		log.Printf("⚠️ Failed to publish order created event: %v", err)
	}

	log.Printf("✅ Order %s created, total %d cents", order.ID, order.TotalCents)
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns a single order with items. Saga progress is observed
// by re-reading the status here; there is no push channel back to callers.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders returns a page of orders, optionally filtered by customer_id
// and status query parameters.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := h.pagination(c)

	status := c.Query("status")
	if status != "" && !models.ValidStatus(status) {
		respondError(c, models.ErrInvalidStatus)
		return
	}

	orders, total, err := h.orders.List(page, limit, c.Query("customer_id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// UpdateOrderStatus writes a status from the closed set.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orders.UpdateStatus(c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order status updated"})
}

func (h *OrderHandler) pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageLimit)))
	if limit < 1 {
		limit = h.pageLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return page, limit
}

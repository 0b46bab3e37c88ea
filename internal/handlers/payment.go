package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

// PaymentHandler exposes manual payment resolution for orders stuck in
// PENDING_PAYMENT: the operator forces a confirmed or failed outcome and
// the same event as the automatic path drives the status resolver.
type PaymentHandler struct {
	orders OrderStore
	bus    EventBus
}

func NewPaymentHandler(orders OrderStore, bus EventBus) *PaymentHandler {
	return &PaymentHandler{
		orders: orders,
		bus:    bus,
	}
}

func (h *PaymentHandler) ResolvePayment(c *gin.Context) {
	var req struct {
		Succeed *bool `json:"succeed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if order.Status != models.StatusPendingPayment {
		respondError(c, models.ErrNotPendingPayment)
		return
	}

	event := models.PaymentProcessedEvent{
		OrderID:     order.ID,
		Status:      models.PaymentFailed,
		ProcessedAt: time.Now().UTC(),
		Message:     "payment rejected manually",
	}
	if *req.Succeed {
		event.Status = models.PaymentConfirmed
		event.Message = "payment confirmed manually"
	}

	if err := h.bus.PublishPaymentProcessed(event); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("🛠️ Manual payment %s for order %s", event.Status, order.ID)
	c.JSON(http.StatusAccepted, gin.H{
		"order_id": order.ID,
		"status":   event.Status,
	})
}

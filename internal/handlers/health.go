package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service string
	broker  BrokerStatus
}

func NewHealthHandler(service string, broker BrokerStatus) *HealthHandler {
	return &HealthHandler{
		service: service,
		broker:  broker,
	}
}

// HealthCheck reports service status and the broker operating mode. The
// service stays healthy in fallback mode: orders still work, saga events
// are simply dropped.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	messaging := "connected"
	switch {
	case h.broker.IsFallbackMode():
		messaging = "fallback"
	case !h.broker.IsConnectionActive():
		messaging = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   h.service,
		"messaging": messaging,
	})
}

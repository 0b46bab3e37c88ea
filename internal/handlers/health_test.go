package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheckReportsBrokerMode(t *testing.T) {
	cases := []struct {
		name      string
		broker    *fakeBrokerStatus
		messaging string
	}{
		{"connected", &fakeBrokerStatus{active: true}, "connected"},
		{"fallback", &fakeBrokerStatus{fallback: true}, "fallback"},
		{"disconnected", &fakeBrokerStatus{}, "disconnected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler("order-api", tc.broker).HealthCheck)

			rec := doJSON(t, router, http.MethodGet, "/health", nil)
			http200(t, rec)

			var resp map[string]string
			decodeBody(t, rec, &resp)
			assert.Equal(t, "healthy", resp["status"])
			assert.Equal(t, "order-api", resp["service"])
			assert.Equal(t, tc.messaging, resp["messaging"])
		})
	}
}

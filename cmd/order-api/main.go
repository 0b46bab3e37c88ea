package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prudhivi99/ecommerce-saga-go/internal/cache"
	"github.com/prudhivi99/ecommerce-saga-go/internal/config"
	"github.com/prudhivi99/ecommerce-saga-go/internal/db"
	"github.com/prudhivi99/ecommerce-saga-go/internal/discovery"
	"github.com/prudhivi99/ecommerce-saga-go/internal/handlers"
	"github.com/prudhivi99/ecommerce-saga-go/internal/messaging"
	"github.com/prudhivi99/ecommerce-saga-go/internal/publisher"
)

const (
	serviceName = "order-api"
	serviceID   = "order-api-1"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Connect to RabbitMQ: an unreachable broker switches the manager to
	// fallback mode and the API keeps serving with messaging disabled.
	rabbitMQ := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err := rabbitMQ.Connect(); err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Disconnect()

	if err := messaging.SetupTopology(rabbitMQ); err != nil {
		log.Fatalf("Failed to declare messaging topology: %v", err)
	}

	// Register with Consul; without it the service still works standalone.
	if consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort); err != nil {
		log.Printf("⚠️ Consul unavailable, running unregistered: %v", err)
	} else {
		err := consul.Register(discovery.ServiceConfig{
			Name: serviceName,
			ID:   serviceID,
			Port: portOf(cfg.HTTPAddr),
			Tags: []string{"api", "orders"},
		})
		if err != nil {
			log.Printf("⚠️ Failed to register service: %v", err)
		} else {
			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
				<-sigChan
				log.Println("Shutting down...")
				consul.Deregister(serviceID)
				rabbitMQ.Disconnect()
				os.Exit(0)
			}()
		}
	}

	// Repositories and publisher
	orderRepo := db.NewOrderRepository(database)
	productRepo := db.NewProductRepository(database)
	cachedProducts := db.NewCachedProductRepository(productRepo, redisCache)
	customerRepo := db.NewCustomerRepository(database)
	bus := publisher.NewEventPublisher(rabbitMQ)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderRepo, cachedProducts, customerRepo, bus, cfg.PageLimit, cfg.MaxPageLimit)
	paymentHandler := handlers.NewPaymentHandler(orderRepo, bus)
	productHandler := handlers.NewProductHandler(cachedProducts)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	healthHandler := handlers.NewHealthHandler(serviceName, rabbitMQ)

	// Setup router
	router := gin.Default()

	router.GET("/health", healthHandler.HealthCheck)

	router.POST("/orders", orderHandler.CreateOrder)
	router.GET("/orders", orderHandler.ListOrders)
	router.GET("/orders/:id", orderHandler.GetOrder)
	router.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	router.POST("/orders/:id/payment", paymentHandler.ResolvePayment)

	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:id", productHandler.GetProduct)
	router.POST("/products", productHandler.CreateProduct)
	router.DELETE("/products/:id", productHandler.DeleteProduct)

	router.GET("/customers", customerHandler.ListCustomers)
	router.GET("/customers/:id", customerHandler.GetCustomer)
	router.POST("/customers", customerHandler.CreateCustomer)

	// Start server
	log.Printf("🚀 %s starting on %s", serviceName, cfg.HTTPAddr)
	if rabbitMQ.IsFallbackMode() {
		log.Println("   Messaging in fallback mode: saga events are dropped")
	} else {
		log.Println("   Publishing saga events to RabbitMQ")
	}
	router.Run(cfg.HTTPAddr)
}

// portOf extracts the numeric port from a listen address like ":8082".
func portOf(addr string) int {
	port := 0
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		for _, ch := range addr[i+1:] {
			if ch < '0' || ch > '9' {
				return 0
			}
			port = port*10 + int(ch-'0')
		}
	}
	return port
}

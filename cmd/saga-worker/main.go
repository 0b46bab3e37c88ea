package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prudhivi99/ecommerce-saga-go/internal/cache"
	"github.com/prudhivi99/ecommerce-saga-go/internal/config"
	"github.com/prudhivi99/ecommerce-saga-go/internal/consumer"
	"github.com/prudhivi99/ecommerce-saga-go/internal/db"
	"github.com/prudhivi99/ecommerce-saga-go/internal/messaging"
	"github.com/prudhivi99/ecommerce-saga-go/internal/payment"
	"github.com/prudhivi99/ecommerce-saga-go/internal/publisher"
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

	// A worker without a broker has no work: unlike the API, fallback
	// mode is fatal here.
	rabbitMQ := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err := rabbitMQ.Connect(); err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	if rabbitMQ.IsFallbackMode() {
		log.Fatal("RabbitMQ unreachable: saga workers cannot run in fallback mode")
	}
	defer rabbitMQ.Disconnect()

	if err := messaging.SetupTopology(rabbitMQ); err != nil {
		log.Fatalf("Failed to declare messaging topology: %v", err)
	}

	// Shared store and outcome publisher
	orderRepo := db.NewOrderRepository(database)
	productRepo := db.NewProductRepository(database)
	cachedProducts := db.NewCachedProductRepository(productRepo, redisCache)
	bus := publisher.NewEventPublisher(rabbitMQ)

	gateway := payment.NewSimulator(cfg.PaymentSuccessRate, cfg.PaymentDelay)

	stockConsumer := consumer.NewStockConsumer(orderRepo, cachedProducts, bus)
	paymentConsumer := consumer.NewPaymentConsumer(gateway, bus)
	statusConsumer := consumer.NewStatusConsumer(orderRepo, cachedProducts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startConsumer(ctx, rabbitMQ, messaging.StockValidationQueue, stockConsumer.HandleOrderCreated)
	startConsumer(ctx, rabbitMQ, messaging.PaymentProcessingQueue, paymentConsumer.HandleOrderCreated)
	startConsumer(ctx, rabbitMQ, messaging.OrderStatusUpdateQueue, statusConsumer.Handle)

	log.Println("🚀 Saga workers running: stock validation, payment processing, status resolution")

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received %s, stopping workers...", sig)

	cancel()
	if err := rabbitMQ.Disconnect(); err != nil {
		log.Printf("⚠️ Error during broker teardown: %v", err)
	}
}

func startConsumer(ctx context.Context, mq *messaging.RabbitMQ, queue string, handle consumer.Handler) {
	deliveries, err := mq.Consume(queue)
	if err != nil {
		log.Fatalf("Failed to consume from %s: %v", queue, err)
	}
	go consumer.Run(ctx, queue, deliveries, handle)
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven knob shared by the binaries.
type Config struct {
	HTTPAddr    string
	GatewayAddr string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost string
	RedisPort int
	CacheTTL  time.Duration

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string

	ConsulHost string
	ConsulPort int

	PaymentSuccessRate float64
	PaymentDelay       time.Duration

	PageLimit    int
	MaxPageLimit int
}

// Load collects configuration from the environment with defaults,
// after loading an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8082"),
		GatewayAddr: getenv("GATEWAY_ADDR", ":8080"),

		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     atoienv("POSTGRES_PORT", 5432),
		PostgresUser:     getenv("POSTGRES_USER", "ecommerce"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "ecommerce123"),
		PostgresDB:       getenv("POSTGRES_DB", "ecommerce"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: atoienv("REDIS_PORT", 6379),
		CacheTTL:  durenvs("CACHE_TTL_SECONDS", 300),

		RabbitHost:     getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     atoienv("RABBITMQ_PORT", 5672),
		RabbitUser:     getenv("RABBITMQ_USER", "guest"),
		RabbitPassword: getenv("RABBITMQ_PASSWORD", "guest"),

		ConsulHost: getenv("CONSUL_HOST", "localhost"),
		ConsulPort: atoienv("CONSUL_PORT", 8500),

		PaymentSuccessRate: floatenv("PAYMENT_SUCCESS_RATE", 0.85),
		PaymentDelay:       durenvms("PAYMENT_DELAY_MS", 2000),

		PageLimit:    atoienv("PAGE_LIMIT", 10),
		MaxPageLimit: atoienv("MAX_PAGE_LIMIT", 100),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

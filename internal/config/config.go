package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// SQLite Configuration
	SQLitePath string
	// JWT Configuration
	JWTSecret string
	// Kafka Configuration
	KafkaBrokers     []string
	KafkaTopicStock  string
	KafkaTopicAlerts string
	KafkaTopicOrders string
	KafkaClientID    string
	KafkaAcks        string
	KafkaRetries     int
	// Redis Configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	// Stock monitor configuration
	LowStockThreshold int
	StockScanInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Parse Kafka brokers (comma-separated)
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// SQLite Configuration
		SQLitePath: getEnv("SQLITE_PATH", "./inventory.db"),
		// JWT Configuration
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
		// Kafka Configuration
		KafkaBrokers:     kafkaBrokers,
		KafkaTopicStock:  getEnv("KAFKA_TOPIC_STOCK", "inventory.stock"),
		KafkaTopicAlerts: getEnv("KAFKA_TOPIC_ALERTS", "inventory.alerts"),
		KafkaTopicOrders: getEnv("KAFKA_TOPIC_ORDERS", "inventory.orders"),
		KafkaClientID:    getEnv("KAFKA_CLIENT_ID", "inventory-service"),
		KafkaAcks:        getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:     getEnvAsInt("KAFKA_RETRIES", 3),
		// Redis Configuration
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 30*time.Second),
		// Stock monitor configuration
		LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 10),
		StockScanInterval: getEnvAsDuration("STOCK_SCAN_INTERVAL", 60*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return result
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the full back-office configuration
type Config struct {
	Port     int
	LogLevel string
	Env      string
	DB       DBConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Board    BoardConfig
}

// DBConfig holds the database configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the Kafka configuration
type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	ConsumerGroup string
}

// RedisConfig holds the Redis cache configuration
type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

// BoardConfig holds the order board client configuration
type BoardConfig struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	DragThreshold   float64
	TrustServerTime bool
}

// getEnv retrieves the value of an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

// Load reads the configuration from environment variables and returns a Config struct.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))

	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))

	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("REDIS_CACHE_TTL", "60s"))

	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL: %w", err)
	}

	requestTimeout, err := time.ParseDuration(getEnv("BOARD_REQUEST_TIMEOUT", "10s"))

	if err != nil {
		return nil, fmt.Errorf("invalid BOARD_REQUEST_TIMEOUT: %w", err)
	}

	dragThreshold, err := strconv.ParseFloat(getEnv("BOARD_DRAG_THRESHOLD", "8"), 64)

	if err != nil {
		return nil, fmt.Errorf("invalid BOARD_DRAG_THRESHOLD: %w", err)
	}

	trustServerTime, err := strconv.ParseBool(getEnv("BOARD_TRUST_SERVER_TIME", "true"))

	if err != nil {
		return nil, fmt.Errorf("invalid BOARD_TRUST_SERVER_TIME: %w", err)
	}

	return &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "backoffice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic:   getEnv("KAFKA_ORDERS_TOPIC", "backoffice.orders"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "backoffice-notifications"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			CacheTTL: cacheTTL,
		},
		Board: BoardConfig{
			APIBaseURL:      getEnv("BOARD_API_BASE_URL", "http://localhost:8080"),
			RequestTimeout:  requestTimeout,
			DragThreshold:   dragThreshold,
			TrustServerTime: trustServerTime,
		},
	}, nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Features FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type CheckoutConfig struct {
	// IdempotencyTTL bounds the window in which a duplicate checkout
	// submission for the same user is rejected.
	IdempotencyTTL time.Duration
	// CommitRetries is the number of transparent retries on a
	// serialization conflict before the commit is reported failed.
	CommitRetries int
}

type FeatureFlags struct {
	EnableOrderEvents  bool
	EnableOrderCaching bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "acme"),
			Password:     getEnvString("DB_PASSWORD", "acme"),
			Name:         getEnvString("DB_NAME", "acme_storefront"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: time.Duration(getEnvInt("REDIS_CACHE_TTL", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrdersTopic: getEnvString("KAFKA_ORDERS_TOPIC", "storefront.orders"),
		},
		Session: SessionConfig{
			CookieName: getEnvString("SESSION_COOKIE_NAME", "session_id"),
			TTL:        time.Duration(getEnvInt("SESSION_TTL", 86400)) * time.Second,
		},
		Checkout: CheckoutConfig{
			IdempotencyTTL: time.Duration(getEnvInt("CHECKOUT_IDEMPOTENCY_TTL", 10)) * time.Second,
			CommitRetries:  getEnvInt("CHECKOUT_COMMIT_RETRIES", 3),
		},
		Features: FeatureFlags{
			EnableOrderEvents:  getEnvBool("ENABLE_ORDER_EVENTS", true),
			EnableOrderCaching: getEnvBool("ENABLE_ORDER_CACHING", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

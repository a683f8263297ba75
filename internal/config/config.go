package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Stripe    StripeConfig
	Auth      AuthConfig
	Blocklist BlocklistConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	DSN string // MySQL DSN; empty means in-memory order storage (dev only)
}

type RedisConfig struct {
	Addr     string // empty means in-memory OTP storage (dev only)
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers           []string // empty means log-only notifications
	ReceiptTopic      string
	VerificationTopic string
}

type StripeConfig struct {
	SecretKey        string
	BaseURL          string // storefront origin for redirect targets
	Currency         string
	AllowedCountries []string
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for the admin endpoints
}

type BlocklistConfig struct {
	URL string // disposable-domain list; empty disables the check
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:           getEnvAsSlice("KAFKA_BROKERS", nil),
			ReceiptTopic:      getEnv("KAFKA_RECEIPT_TOPIC", "emails.receipts"),
			VerificationTopic: getEnv("KAFKA_VERIFICATION_TOPIC", "emails.verifications"),
		},
		Stripe: StripeConfig{
			SecretKey:        getEnv("STRIPE_SECRET_KEY", ""),
			BaseURL:          getEnv("STOREFRONT_BASE_URL", "http://localhost:5173"),
			Currency:         getEnv("CHECKOUT_CURRENCY", "usd"),
			AllowedCountries: getEnvAsSlice("SHIPPING_COUNTRIES", []string{"US", "CA"}),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		Blocklist: BlocklistConfig{
			URL: getEnv("EMAIL_BLOCKLIST_URL", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	if c.Stripe.BaseURL == "" {
		return fmt.Errorf("STOREFRONT_BASE_URL is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

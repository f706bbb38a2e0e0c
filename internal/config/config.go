package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Config is read once at startup from the environment (after godotenv).
type Config struct {
	Port               string
	Database           DatabaseConfig
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	OutboxPollInterval time.Duration
	RateLimitRPS       float64
	RateLimitBurst     int
	ConnectRetries     int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

func Load() *Config {
	return &Config{
		Port: getEnvOrDefault("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnvOrDefault("DB_NAME", "rota"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		OutboxPollInterval: getDurationOrDefault("OUTBOX_POLL_INTERVAL", 3*time.Second),
		RateLimitRPS:       getFloatOrDefault("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getIntOrDefault("RATE_LIMIT_BURST", 20),
		ConnectRetries:     getIntOrDefault("CONNECT_RETRIES", 5),
	}
}

// RequireJWTSecret is checked by the API only; workers never verify tokens.
func (c *Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getIntOrDefault(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloatOrDefault(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

package app

import (
	"os"
	"time"
)

type Config struct {
	APIBaseURL string // Optional: base URL of the banking backend (default: http://localhost:8080)

	HTTPTimeout   time.Duration // Optional: per-request HTTP timeout, 0 disables (default: 0)
	FeedbackDelay time.Duration // Optional: hold time before an action slot reopens (default: 750ms)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		APIBaseURL:    getEnvOrDefault("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:   getEnvDurationOrDefault("HTTP_TIMEOUT", 0),
		FeedbackDelay: getEnvDurationOrDefault("FEEDBACK_DELAY", 750*time.Millisecond),
		Env:           getEnvOrDefault("ENV", "dev"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

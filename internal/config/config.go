// Package config provides configuration for the campaign operations service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Upstream campaign backend (proxied)
	BackendURL     string
	BackendAPIKey  string
	BackendTimeout time.Duration

	// Narrative settings
	PollInterval time.Duration
	StallAfter   time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:    getEnv("DATABASE_URL", "file:campaignops.db?cache=shared&mode=rwc"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:9000"),
		BackendAPIKey:  getEnv("BACKEND_API_KEY", ""),
		BackendTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		PollInterval:   time.Duration(getEnvInt("POLL_INTERVAL_MS", 5000)) * time.Millisecond,
		StallAfter:     time.Duration(getEnvInt("STALL_AFTER_MS", 1800000)) * time.Millisecond,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

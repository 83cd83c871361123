package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	FromAddress      string
	AdminToken       string
	ResendAPIKey     string
	DispatchEnabled  bool
	DispatchInterval time.Duration
	DispatchBatch    int
	SeedTestUser     bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	dispatchInterval := 5 * time.Second
	if raw := os.Getenv("DISPATCH_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			dispatchInterval = parsed
		}
	}

	dispatchBatch := 50
	if raw := os.Getenv("DISPATCH_BATCH"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			dispatchBatch = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		FromAddress:      getEnv("FROM_ADDRESS", "noreply@sendgate.io"),
		AdminToken:       getEnv("ADMIN_TOKEN", ""),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		DispatchEnabled:  getEnv("DISPATCH_ENABLED", "true") == "true",
		DispatchInterval: dispatchInterval,
		DispatchBatch:    dispatchBatch,
		SeedTestUser:     getEnv("SEED_TEST_USER", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

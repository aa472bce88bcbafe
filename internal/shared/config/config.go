package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the planner
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Admin auth for mutating endpoints
	AdminToken string

	// Rate limiting (requests per minute per client)
	DefaultRateLimit int

	// Hot capacity cache (Redis layer in front of the persistent memo)
	CapacityCacheTTLSeconds int
	CapacityCacheEnabled    bool

	// Cost model
	ElectricityRatePerKWh float64

	// Model catalog sync (OpenAI-compatible endpoint)
	CatalogBaseURL string
	CatalogAPIKey  string

	// Seed default reference data at startup
	SeedDefaults bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379"),
		AdminToken:              getEnv("ADMIN_TOKEN", ""),
		DefaultRateLimit:        getEnvInt("DEFAULT_RATE_LIMIT", 100),
		CapacityCacheTTLSeconds: getEnvInt("CAPACITY_CACHE_TTL_SECONDS", 3600),
		CapacityCacheEnabled:    getEnvBool("CAPACITY_CACHE_ENABLED", true),
		ElectricityRatePerKWh:   getEnvFloat("ELECTRICITY_RATE_PER_KWH", 0.8),
		CatalogBaseURL:          getEnv("CATALOG_BASE_URL", ""),
		CatalogAPIKey:           getEnv("CATALOG_API_KEY", ""),
		SeedDefaults:            getEnvBool("SEED_DEFAULTS", false),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.ElectricityRatePerKWh < 0 {
		return nil, fmt.Errorf("ELECTRICITY_RATE_PER_KWH must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

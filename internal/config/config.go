package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	BackendURL      string // Base URL of the managed backend (REST + auth admin)
	AnonKey         string
	ServiceRoleKey  string // Falls back to AnonKey when unset (degraded admin lookups)
	DatabaseURL     string // Postgres DSN used by the change-feed listener
	JWTSecret       string
	SkipAuth        bool
	Environment     string
	RefreshSchedule string
	DefaultPageSize int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", ""),
		AnonKey:         getEnv("BACKEND_ANON_KEY", ""),
		ServiceRoleKey:  getEnv("BACKEND_SERVICE_ROLE_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 5m"),
		DefaultPageSize: getEnvInt("PAGE_SIZE_DEFAULT", 10),
	}

	if cfg.BackendURL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("missing backend configuration: BACKEND_URL and BACKEND_ANON_KEY are required")
	}

	// Admin lookups degrade to the anon key's privileges rather than failing hard.
	if cfg.ServiceRoleKey == "" {
		log.Println("BACKEND_SERVICE_ROLE_KEY not set, falling back to anon key")
		cfg.ServiceRoleKey = cfg.AnonKey
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

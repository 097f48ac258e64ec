package utils

import (
	"log"
	"os"
)

// GetDatabaseDSN returns the appropriate DSN based on the current environment
func GetDatabaseDSN() string {
	appEnv := GetEnv("APP_ENV", "development")

	var dsn string
	switch appEnv {
	case "production":
		dsn = os.Getenv("PROD_POSTGRES_DSN")
	case "test":
		dsn = os.Getenv("TEST_POSTGRES_DSN")
	default: // development
		dsn = os.Getenv("LOCAL_POSTGRES_DSN")
	}

	if dsn == "" {
		log.Fatalf("Database DSN is not configured for environment: %s", appEnv)
	}

	return dsn
}

// GetEnv fetches environment variables with a fallback default
func GetEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvOrPanic fetches an environment variable and panics if not set
func GetEnvOrPanic(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("Environment variable '%s' is not set and is required.", key)
	return ""
}

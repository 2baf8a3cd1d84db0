package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration sourced from the environment.
type Config struct {
	// Server
	Port string

	// Database
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Station catalog
	StationsFile string
}

// Load reads configuration from environment variables, loading a local
// .env file first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBName: getEnv("DB_NAME", "railbook"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,

		StationsFile: getEnv("STATIONS_FILE", "indian_railway_stations.json"),
	}

	if cfg.JWTSecret == "" {
		if isProduction() {
			log.Fatal("❌ CRITICAL: JWT_SECRET must be set in production environment")
		}
		log.Println("⚠️ WARNING: Using default JWT secret (development only)")
		cfg.JWTSecret = "dev-secret-change-me-0123456789abcdef"
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		dur, err := time.ParseDuration(ttl)
		if err != nil || dur <= 0 {
			log.Printf("invalid JWT_TTL=%q, using default %s", ttl, cfg.TokenTTL)
		} else {
			cfg.TokenTTL = dur
		}
	}

	return cfg
}

func isProduction() bool {
	return os.Getenv("ENV") == "production" || os.Getenv("ENVIRONMENT") == "production"
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

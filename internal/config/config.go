package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Redis, optional; backs the rate limiter when set
	RedisURL string

	// Trusted header carrying the caller's username. The server performs
	// no authentication of its own; it sits behind an ingress that does.
	UsernameHeader string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first if
// present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:            getEnv("ENV", "development"),
		ServerAddr:     getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/featreq?sslmode=disable"),
		RedisURL:       getEnv("REDIS_URL", ""),
		UsernameHeader: getEnv("USERNAME_HEADER", "X-Username"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

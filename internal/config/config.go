package config

import (
	"log/slog"
	"os"
)

// Config holds the service configuration, loaded from the environment.
type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	JWTSecret       string
	BuilderUsername string
	BuilderPassword string
}

// Load reads configuration from environment variables, logging a warning
// for every default taken.
func Load() *Config {
	return &Config{
		Port:            envOr("PORT", "8080"),
		MongoURI:        envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   envOr("MONGO_DATABASE", "branchbot"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		JWTSecret:       envOr("JWT_SECRET", "dev-secret-change-in-production"),
		BuilderUsername: envOr("BUILDER_USERNAME", "admin"),
		BuilderPassword: envOr("BUILDER_PASSWORD", "password123"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Warn("env var not set, using default", "key", key)
	return fallback
}

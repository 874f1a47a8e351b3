// Package config loads service configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the ledger service.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// StoreBackend selects the storage implementation: "sqlite" or "mongo".
	StoreBackend string
	SQLitePath   string
	MongoURI     string
	MongoDB      string

	// JWTSecret signs admin API tokens. Required.
	JWTSecret   string
	TokenExpiry time.Duration

	// Cron specs for the monthly archive run and the daily expiry sweep.
	// Empty disables the scheduler.
	ArchiveSpec string
	SweepSpec   string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment only")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: getEnv("STORE_BACKEND", "sqlite"),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/ledger.db"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGODB_DB", "ledger"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenExpiry:  24 * time.Hour,
		ArchiveSpec:  getEnv("ARCHIVE_CRON", "0 4 1 * *"),
		SweepSpec:    getEnv("SWEEP_CRON", "30 4 * * *"),
	}

	if expiry := os.Getenv("TOKEN_EXPIRY"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err != nil {
			return nil, errors.New("invalid TOKEN_EXPIRY: " + err.Error())
		}
		cfg.TokenExpiry = d
	}

	if cfg.StoreBackend != "sqlite" && cfg.StoreBackend != "mongo" {
		return nil, errors.New("STORE_BACKEND must be sqlite or mongo, got " + cfg.StoreBackend)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

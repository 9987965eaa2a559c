package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
// Every external collaborator (Redis, SQLite store, downstream relay,
// reputation service, alert sink) is optional: an empty or unreachable value
// is a degraded mode, never a startup failure.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// Preferred log queue backend (Redis list).
	RedisHost string
	RedisPort string

	// Downstream collector that receives verdict batches.
	RelayURL string

	// How long a BLOCK verdict keeps an address on the blocklist.
	BlockDuration time.Duration

	// Optional reputation/ML scoring endpoint.
	IntelURL string

	// Optional shoutrrr URL notified when a new block is placed.
	AlertURL string
}

// Load reads env vars and falls back to defaults so the engine can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:   getEnv("MSC_ENV", "development"),
		HTTPPort:      getEnv("MSC_HTTP_PORT", "8000"),
		DatabasePath:  getEnv("MSC_DB_PATH", filepath.Join("data", "threat_engine.db")),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RelayURL:      getEnv("BACKEND_API_URL", "http://localhost:3000/api/logs/ingest"),
		BlockDuration: time.Duration(getEnvInt("BLOCK_DURATION", 600)) * time.Second,
		IntelURL:      getEnv("MSC_INTEL_URL", ""),
		AlertURL:      getEnv("MSC_ALERT_URL", ""),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// RedisAddr returns the host:port of the preferred queue backend.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"boards/internal/util"
)

// DefaultJWTSecret is the development fallback signing key. Deployments must
// override it via BOARDS_JWT_SECRET; main logs a warning when it is in use.
const DefaultJWTSecret = "dev-secret-change-in-production"

// Config holds all process-wide settings. It is built once at startup and
// passed by reference into the token service and the store.
type Config struct {
	Addr          string
	DBPath        string
	JWTSecret     string
	JWTAlgorithm  string
	JWTTTLMinutes int
	BcryptCost    int
}

// Load reads configuration from an optional .env file and the environment.
// Missing values fall back to development defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          util.EnvOrDefault("BOARDS_ADDR", ":8080"),
		DBPath:        util.EnvOrDefault("BOARDS_DB_PATH", "data/boards.db"),
		JWTSecret:     util.EnvOrDefault("BOARDS_JWT_SECRET", DefaultJWTSecret),
		JWTAlgorithm:  util.EnvOrDefault("BOARDS_JWT_ALGORITHM", "HS256"),
		JWTTTLMinutes: 60,
		BcryptCost:    0,
	}

	if raw := os.Getenv("BOARDS_JWT_TTL_MINUTES"); raw != "" {
		ttl, err := strconv.Atoi(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid BOARDS_JWT_TTL_MINUTES %q", raw)
		}
		cfg.JWTTTLMinutes = ttl
	}

	if raw := os.Getenv("BOARDS_BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil || cost < 0 {
			return nil, fmt.Errorf("invalid BOARDS_BCRYPT_COST %q", raw)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// UsingDefaultSecret reports whether the hardcoded development signing key is
// still active.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

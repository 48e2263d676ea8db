package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables.
// Unset or malformed values leave the current value untouched.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("DATABASE_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v, ok := os.LookupEnv("AUTH_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuthRateLimit = n
		}
	}
	if v, ok := os.LookupEnv("AUTH_RATE_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AuthRateWindow = d
		}
	}
}

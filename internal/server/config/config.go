// Package config handles configuration for the server component,
// including defaults, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the syncpad server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabasePath: path to the SQLite database file.
//   - JWTSecret: HMAC secret for signing JWTs (HS256). Do not use the
//     test default in prod.
//   - TokenTTL: access token lifetime.
//   - AuthRateLimit / AuthRateWindow: per-IP request budget for the
//     auth endpoints.
type Config struct {
	Addr           string
	DatabasePath   string
	JWTSecret      string
	TokenTTL       time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.DatabasePath = "syncpad.db"
	c.JWTSecret = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.AuthRateLimit = 10
	c.AuthRateWindow = time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying
// values from environment variables and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import "flag"

// parseFlags overlays configuration from command-line flags.
// Flag defaults are the values already present in cfg, so flags win
// over environment only when explicitly set.
func parseFlags(cfg *Config) {
	flag.StringVar(&cfg.Addr, "a", cfg.Addr, "bind address for the HTTP endpoint")
	flag.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database file")
	flag.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "HMAC secret for signing JWTs")
	flag.DurationVar(&cfg.TokenTTL, "t", cfg.TokenTTL, "access token lifetime")
	flag.IntVar(&cfg.AuthRateLimit, "r", cfg.AuthRateLimit, "per-IP request budget for auth endpoints")
	flag.DurationVar(&cfg.AuthRateWindow, "w", cfg.AuthRateWindow, "rate limit window for auth endpoints")
	flag.Parse()
}

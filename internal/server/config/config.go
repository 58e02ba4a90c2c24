// Package config handles configuration for the development backend,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps users in memory.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use the default outside development.
//   - TokenValidityDuration: lifetime of issued session tokens.
//   - CodeValidityDuration: lifetime of an emailed verification code.
//   - RateLimitRPS / RateLimitBurst: per-client request budget.
type Config struct {
	EndpointAddr          string        `env:"CLUBSRV_ADDR"`
	DatabaseDSN           string        `env:"CLUBSRV_DATABASE_DSN"`
	SecretKey             string        `env:"CLUBSRV_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"CLUBSRV_TOKEN_VALIDITY"`
	CodeValidityDuration  time.Duration `env:"CLUBSRV_CODE_VALIDITY"`
	RateLimitRPS          float64       `env:"CLUBSRV_RATE_LIMIT_RPS"`
	RateLimitBurst        int           `env:"CLUBSRV_RATE_LIMIT_BURST"`
	Debug                 bool          `env:"CLUBSRV_DEBUG"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.CodeValidityDuration = 15 * time.Minute
	c.RateLimitRPS = 5
	c.RateLimitBurst = 10
	c.Debug = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

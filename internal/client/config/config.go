package config

import "time"

// Config holds runtime settings for the club client.
type Config struct {
	ServerBaseURL       string        `env:"CLUB_SERVER_URL"`
	DataDir             string        `env:"CLUB_DATA_DIR"`
	RequestTimeout      time.Duration `env:"CLUB_REQUEST_TIMEOUT"`
	ResendCooldown      time.Duration `env:"CLUB_RESEND_COOLDOWN"`
	OnlineCheckInterval time.Duration `env:"CLUB_ONLINE_CHECK_INTERVAL"`
	Debug               bool          `env:"CLUB_DEBUG"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.DataDir = ".clubapp"
	c.RequestTimeout = 10 * time.Second
	c.ResendCooldown = 60 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.Debug = false
}

// LoadConfig applies defaults, then JSON, environment and flags in that order.
// It panics on an unreadable config file or malformed values.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

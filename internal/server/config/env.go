package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays config with CLUBSRV_* variables. Malformed values panic.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

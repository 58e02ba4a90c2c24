package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with CLUB_* variables. Unset variables leave the
// current value alone. Malformed values panic.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}

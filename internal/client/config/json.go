package config

import (
	"encoding/json"
	"os"

	"github.com/dzikiwschod/clubapp/internal/flagx"
	"github.com/dzikiwschod/clubapp/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let a
// file override only some settings.
type JsonConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	DataDir             *string         `json:"data_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	ResendCooldown      *timex.Duration `json:"resend_cooldown"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	Debug               *bool           `json:"debug"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Read and unmarshal errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ResendCooldown != nil {
		cfg.ResendCooldown = jc.ResendCooldown.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysOnlySetVariables(t *testing.T) {
	t.Setenv("CLUB_REQUEST_TIMEOUT", "7s")
	t.Setenv("CLUB_DEBUG", "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:3000", cfg.ServerBaseURL)
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	t.Setenv("CLUB_RESEND_COOLDOWN", "a minute")

	require.Panics(t, func() { parseEnv(&Config{}) })
}

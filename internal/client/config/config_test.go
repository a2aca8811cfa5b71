package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:9999", c.ProviderURL)
	assert.Equal(t, "wellnoosh.db", c.DatabasePath)
	assert.Equal(t, 8910, c.OAuthRedirectPort)
	assert.Equal(t, 30*time.Second, c.RefreshInterval)
	assert.Equal(t, time.Minute, c.RefreshMargin)
	assert.False(t, c.DemoMode)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:9999", cfg.ProviderURL)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
}

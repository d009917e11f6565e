package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range keys {
		t.Setenv(key, "")
	}

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "app.unlock-protocol.com", cfg.UnlockAppHost)
	assert.Equal(t, int64(80001), cfg.UnlockNetworkID)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.ReceiptPollInterval)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Contains(t, cfg.DatabasePath, "lock-launchpad.db")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UNLOCK_NETWORK_ID", "137")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("BASE_URL", "https://tickets.example.com/")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(137), cfg.UnlockNetworkID)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "https://tickets.example.com", cfg.PublicURL(9090))
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, UnlockNetworkID: 80001, SessionTTL: time.Minute, ReceiptPollInterval: time.Second, LogFormat: "console"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "network id", mutate: func(c *Config) { c.UnlockNetworkID = 0 }},
		{name: "session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }},
		{name: "poll interval", mutate: func(c *Config) { c.ReceiptPollInterval = -time.Second }},
		{name: "log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPublicURLFallback(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL(8080))
}

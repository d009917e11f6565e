package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"

	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

// Config holds the runtime settings read from the environment and .env files.
type Config struct {
	Port                int           `mapstructure:"PORT"`
	PostgresURL         string        `mapstructure:"POSTGRES_URL"`
	DatabasePath        string        `mapstructure:"DATABASE_PATH"`
	BaseURL             string        `mapstructure:"BASE_URL"`
	UnlockAppHost       string        `mapstructure:"UNLOCK_APP_HOST"`
	UnlockNetworkID     int64         `mapstructure:"UNLOCK_NETWORK_ID"`
	LogLevel            int           `mapstructure:"LOG_LEVEL"`
	LogFormat           string        `mapstructure:"LOG_FORMAT"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	JWKSURI             string        `mapstructure:"JWKS_URI"`
	ResourceID          string        `mapstructure:"RESOURCE_ID"`
	AuthorizationServer string        `mapstructure:"OAUTH_AUTHORIZATION_SERVER"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	ReceiptPollInterval time.Duration `mapstructure:"RECEIPT_POLL_INTERVAL"`
}

var keys = []string{
	"PORT", "POSTGRES_URL", "DATABASE_PATH", "BASE_URL", "UNLOCK_APP_HOST", "UNLOCK_NETWORK_ID",
	"LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET", "JWKS_URI", "RESOURCE_ID", "OAUTH_AUTHORIZATION_SERVER", "SESSION_TTL", "RECEIPT_POLL_INTERVAL",
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads the configuration using v, so callers can bind flags before loading.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_PATH", defaultDatabasePath())
	v.SetDefault("UNLOCK_APP_HOST", constants.DefaultViewerHost)
	v.SetDefault("UNLOCK_NETWORK_ID", constants.DefaultNetworkID)
	v.SetDefault("LOG_LEVEL", 1)
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("RECEIPT_POLL_INTERVAL", 3*time.Second)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lock-launchpad.db"
	}
	return filepath.Join(home, "lock-launchpad.db")
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.UnlockNetworkID <= 0 {
		return fmt.Errorf("invalid UNLOCK_NETWORK_ID %d", c.UnlockNetworkID)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ReceiptPollInterval <= 0 {
		return fmt.Errorf("RECEIPT_POLL_INTERVAL must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q, expected console or json", c.LogFormat)
	}
	return nil
}

// PublicURL returns the base URL users reach the signing pages on.
func (c *Config) PublicURL(port int) string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration for the dispatch service.
type Config struct {
	// ListenAddress is the address the HTTP API binds to.
	ListenAddress string `mapstructure:"HTTP_LISTEN_ADDRESS"`
	// DatabasePath is the sqlite database file path.
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	// ChatAPIURL is the base URL of the AI automation gateway.
	ChatAPIURL string `mapstructure:"CHAT_API_URL"`
	// ChatAPITimeoutSeconds bounds a single message dispatch. The gateway may
	// itself be waiting on a slow AI provider, hence the long default.
	ChatAPITimeoutSeconds int `mapstructure:"CHAT_API_TIMEOUT"`
	// DefaultProvider handles task types missing from the preference table.
	DefaultProvider string `mapstructure:"AI_DEFAULT_PROVIDER"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the environment with defaults applied.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("HTTP_LISTEN_ADDRESS", ":8080")
	v.SetDefault("DATABASE_PATH", "classpilot.db")
	v.SetDefault("CHAT_API_URL", "http://localhost:5000")
	v.SetDefault("CHAT_API_TIMEOUT", 160)
	v.SetDefault("AI_DEFAULT_PROVIDER", "deepseek")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env vars through Unmarshal, so bind
	// each key explicitly.
	for _, key := range []string{
		"HTTP_LISTEN_ADDRESS", "DATABASE_PATH", "CHAT_API_URL",
		"CHAT_API_TIMEOUT", "AI_DEFAULT_PROVIDER", "LOG_LEVEL",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.ChatAPITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("CHAT_API_TIMEOUT must be positive, got %d", cfg.ChatAPITimeoutSeconds)
	}
	return &cfg, nil
}

// DispatchTimeout returns the configured dispatch timeout as a duration.
func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.ChatAPITimeoutSeconds) * time.Second
}

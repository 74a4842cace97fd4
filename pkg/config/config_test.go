package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddress)
	assert.Equal(t, "http://localhost:5000", cfg.ChatAPIURL)
	assert.Equal(t, 160, cfg.ChatAPITimeoutSeconds)
	assert.Equal(t, "deepseek", cfg.DefaultProvider)
	assert.Equal(t, 160*time.Second, cfg.DispatchTimeout())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHAT_API_URL", "http://gateway.internal:9000")
	t.Setenv("CHAT_API_TIMEOUT", "30")
	t.Setenv("AI_DEFAULT_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://gateway.internal:9000", cfg.ChatAPIURL)
	assert.Equal(t, 30*time.Second, cfg.DispatchTimeout())
	assert.Equal(t, "gemini", cfg.DefaultProvider)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("CHAT_API_TIMEOUT", "0")

	_, err := Load()
	assert.Error(t, err)
}

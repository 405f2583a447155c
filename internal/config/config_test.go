package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envTelegramToken, "123456789:test-token")
	t.Setenv(envOpenAIKey, "sk-test-key-0000")
	t.Setenv(envDataDir, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MaxProducts)
	assert.Equal(t, 10, cfg.RateLimitReqs)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, ":8080", cfg.DashboardAddr)
	assert.True(t, cfg.DashboardEnabled)
	assert.DirExists(t, cfg.DataDir)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envMaxProducts, "20")
	t.Setenv(envRateLimitWindow, "30s")
	t.Setenv(envDashboardAddr, "127.0.0.1:9090")
	t.Setenv(envDashboardEnabled, "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20, cfg.MaxProducts)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "127.0.0.1:9090", cfg.DashboardAddr)
	assert.False(t, cfg.DashboardEnabled)
}

func TestLoad_RequiresTokens(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(envTelegramToken, "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envTelegramToken)

	setRequiredEnv(t)
	t.Setenv(envOpenAIKey, "short")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envOpenAIKey)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(envMaxProducts, "0")
	_, err := Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv(envMaxProducts, "not-a-number")
	_, err = Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv(envRateLimitWindow, "sometimes")
	_, err = Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv(envDashboardAddr, "no-port-here")
	_, err = Load()
	assert.Error(t, err)
}

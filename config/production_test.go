package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "test-password")
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
}

func TestLoadProductionConfigCacheDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 1*time.Hour, cfg.Cache.DefaultTTL)
	// The health ping runs on its own cadence, independent of how long
	// cached entries live.
	assert.Equal(t, 30*time.Second, cfg.Cache.HealthCheckInterval)
}

func TestLoadProductionConfigCacheOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_DEFAULT_TTL", "2h")
	t.Setenv("CACHE_HEALTH_CHECK_INTERVAL", "10s")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Cache.DefaultTTL)
	assert.Equal(t, 10*time.Second, cfg.Cache.HealthCheckInterval)
}

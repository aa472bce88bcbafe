package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 100, cfg.DefaultRateLimit)
	assert.Equal(t, 3600, cfg.CapacityCacheTTLSeconds)
	assert.True(t, cfg.CapacityCacheEnabled)
	assert.Equal(t, 0.8, cfg.ElectricityRatePerKWh)
	assert.False(t, cfg.SeedDefaults)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")
	t.Setenv("PORT", "9090")
	t.Setenv("ELECTRICITY_RATE_PER_KWH", "1.25")
	t.Setenv("CAPACITY_CACHE_ENABLED", "false")
	t.Setenv("SEED_DEFAULTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 1.25, cfg.ElectricityRatePerKWh)
	assert.False(t, cfg.CapacityCacheEnabled)
	assert.True(t, cfg.SeedDefaults)
}

func TestLoadRejectsNegativeElectricityRate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")
	t.Setenv("ELECTRICITY_RATE_PER_KWH", "-0.5")

	_, err := Load()
	assert.Error(t, err)
}

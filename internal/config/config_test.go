package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Places.BaseURL)
	assert.Equal(t, 7, cfg.Enrich.CacheTTLDays)
	assert.Equal(t, 5, cfg.Enrich.PhotoLimit)
	assert.Equal(t, 10, cfg.Enrich.BatchFetchLimit)
	assert.Equal(t, 5, cfg.Enrich.BatchConcurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DIRECTORY_STORE_DRIVER", "postgres")
	t.Setenv("DIRECTORY_ENRICH_CACHE_TTL_DAYS", "14")
	t.Setenv("DIRECTORY_PLACES_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 14, cfg.Enrich.CacheTTLDays)
	assert.Equal(t, "test-key", cfg.Places.Key)
}

func TestInitLogger(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)

	err = InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}

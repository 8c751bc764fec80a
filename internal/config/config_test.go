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
	assert.Equal(t, "./extracts", cfg.Input.Source)
	assert.Equal(t, "legacy_companies.csv", cfg.Input.Files["companies"])
	assert.Equal(t, "legacy_socialnetworks.csv", cfg.Input.Files["social_links"])
	assert.Equal(t, 27, cfg.Pipeline.DefaultOwnerID)
	assert.InDelta(t, 0.8, cfg.Pipeline.LowConfidenceThreshold, 1e-9)
	assert.Equal(t, "ICALPS", cfg.Pipeline.Brand)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CRMMIGRATE_STORE_DRIVER", "postgres")
	t.Setenv("CRMMIGRATE_PIPELINE_DEFAULT_OWNER_ID", "42")
	t.Setenv("CRMMIGRATE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 42, cfg.Pipeline.DefaultOwnerID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

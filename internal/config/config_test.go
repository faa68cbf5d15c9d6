package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	assert.Equal(t, "weighted", cfg.Engine.AggregationMode)
	assert.Equal(t, 4*time.Hour, cfg.Store.TTL())
	assert.Equal(t, "@every 10m", cfg.Store.SweepSchedule)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": 9090},
		"engine": {"aggregation_mode": "row-mean"},
		"store": {"ttl_minutes": 60}
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset fields keep their defaults")
	assert.Equal(t, "row-mean", cfg.Engine.AggregationMode)
	assert.Equal(t, time.Hour, cfg.Store.TTL())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("ENGINE_AGGREGATION_MODE", "row-mean")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "row-mean", cfg.Engine.AggregationMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

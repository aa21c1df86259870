package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("../../configs/rentvsbuy/config.toml")
	require.NoError(t, err)

	assert.Equal(t, "rentvsbuy", cfg.ServiceName)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 20000, cfg.Simulation.MaxPaths)
	assert.Equal(t, 7200000, cfg.Simulation.MaxCells)
	assert.Contains(t, cfg.Simulation.Presets, "chicago")
	assert.Contains(t, cfg.Simulation.Presets, "tampa")
	assert.EqualValues(t, 5000, cfg.Simulation.Defaults["n_paths"])
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "rentvsbuy", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "rentvsbuy.comparison.completed", cfg.Kafka.Topic)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 3600, cfg.Simulation.CacheTTLSeconds)
	assert.Empty(t, cfg.Simulation.Presets)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_REDIS_HOST", "cache.internal")

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port out of range", "[http]\nport = 70000\n"},
		{"non-positive max paths", "[simulation]\nmax_paths = 0\n"},
		{"non-positive max cells", "[simulation]\nmax_cells = 0\n"},
		{"ratelimit without qps", "[ratelimit]\nenabled = true\nqps = 0\n"},
		{"kafka without topic", "[kafka]\nbrokers = [\"localhost:9092\"]\ntopic = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			_, err := Load(path)
			assert.ErrorContains(t, err, "config validation failed")
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("RENTVSBUY_TEST_VALUE", "x")
	assert.Equal(t, "x", GetEnv("RENTVSBUY_TEST_VALUE", "y"))
	assert.Equal(t, "y", GetEnv("RENTVSBUY_TEST_UNSET", "y"))
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty dir so no config.yaml is found.
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "prosperian.db", cfg.Store.Path)
	assert.Equal(t, "https://app.prontohq.com/api/v2", cfg.Pronto.BaseURL)
	assert.Equal(t, 900, cfg.Pronto.DetailTimeoutMs)
	assert.Equal(t, 800, cfg.Pronto.EnrichTimeoutMs)
	assert.Equal(t, 3, cfg.Pronto.MaxRetries)
	assert.Equal(t, "compass~crawler-google-places", cfg.Apify.Actor)
	assert.Equal(t, 12, cfg.Aggregate.PageSize)
	assert.Equal(t, 8, cfg.Aggregate.FanoutConcurrency)
	assert.Equal(t, 1000, cfg.Aggregate.DefaultLimit)
	assert.Equal(t, 10000, cfg.Aggregate.MaxLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PROSPERIAN_SERVER_PORT", "9090")
	t.Setenv("PROSPERIAN_STORE_DRIVER", "postgres")
	t.Setenv("PROSPERIAN_AGGREGATE_PAGE_SIZE", "25")
	t.Setenv("PROSPERIAN_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 25, cfg.Aggregate.PageSize)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte(`
server:
  port: 7070
pronto:
  key: file-key
aggregate:
  max_limit: 500
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.Pronto.Key)
	assert.Equal(t, 500, cfg.Aggregate.MaxLimit)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

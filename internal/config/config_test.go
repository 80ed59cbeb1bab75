package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":9000"
  base_url: "https://sho.rt"
  read_timeout: 3s
store:
  backend: sqlite
log:
  level: debug
  format: console
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "https://sho.rt", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, Default().Server.WriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("LINKSHORT_TEST_ADDR", ":7777")

	cfg, err := Parse([]byte(`
server:
  addr: "${LINKSHORT_TEST_ADDR}"
  base_url: "${LINKSHORT_TEST_UNSET:-http://fallback.example}"
`))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "http://fallback.example", cfg.Server.BaseURL)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown backend": "store:\n  backend: redis\n",
		"bad level":       "log:\n  level: loud\n",
		"bad format":      "log:\n  format: xml\n",
		"empty addr":      "server:\n  addr: \"\"\n",
		"not yaml":        "server: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkshort.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":8123\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8123", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkshort.log")

	logger, closer, err := LogConfig{Level: "info", Format: "json", Output: path}.NewLogger()
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("id", "abc").Msg("shortened")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"shortened"`)
	assert.Contains(t, string(data), `"id":"abc"`)
	assert.NotContains(t, string(data), "hidden")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	var c Config
	c.LoadDefaults()
	return &c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8000/api", c.APIBaseURL)
	assert.Equal(t, "taxdesk.db", c.DatabasePath)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"taxdesk"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "taxdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: https://file.example/api\npoll_interval: 3s\n"), 0o600))
	os.Args = []string{"taxdesk", "-c", path, "-a", "https://flag.example/api"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	want := defaults()
	want.APIBaseURL = "https://flag.example/api"
	want.PollInterval = 3 * time.Second
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_BadFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"taxdesk", "-config", filepath.Join(t.TempDir(), "missing.toml")}

	_, err := LoadConfig()
	require.Error(t, err)
}

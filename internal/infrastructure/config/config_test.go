package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8400", cfg.Server.Port)
	assert.Equal(t, "command", cfg.Surface.CommandScheme)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SURFACE_BOOTSTRAP_URI", "https://cdn.example/bootstrap.js")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/bootstrap.js", cfg.Surface.BootstrapURI)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileOverlaysEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "surface.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Server]
port = "9000"

[Logging]
level = "warn"
`), 0o644))

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HOST", "0.0.0.0")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	// The file wins where it speaks; env fills the rest.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/does/not/exist.toml")
	assert.Error(t, err)
}

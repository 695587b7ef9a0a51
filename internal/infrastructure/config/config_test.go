package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Env)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := "server:\n  port: \"9090\"\n  env: production\nsqlite:\n  path: /tmp/fanbase.db\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "/tmp/fanbase.db", cfg.SQLite.Path)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("server: ["), 0o644))

		_, err := Load(dir)
		require.Error(t, err)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv("FANBASE_PORT", "3000")
		t.Setenv("FANBASE_DB_PATH", "/tmp/override.db")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Server.Port)
		assert.Equal(t, "/tmp/override.db", cfg.SQLite.Path)
	})
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))

	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(""), 0o644))
	assert.True(t, Exists(dir))
}

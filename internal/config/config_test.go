package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	base := Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Data:    DataConfig{BasePath: "/tmp/leitura"},
		Catalog: CatalogConfig{SearchLimit: 10},
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := base
		cfg.App.Environment = "prod"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := base
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := base
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("catalog limit out of range", func(t *testing.T) {
		cfg := base
		cfg.Catalog.SearchLimit = 100
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabasePath(t *testing.T) {
	cfg := Config{Data: DataConfig{BasePath: "/var/lib/leitura"}}
	assert.Equal(t, filepath.Join("/var/lib/leitura", "leitura.db"), cfg.DatabasePath())
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/path")
		require.NoError(t, err)
		assert.Equal(t, "/default/path", got)
	})

	t.Run("tilde expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := expandPath("~/leitura", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "leitura"), got)
	})

	t.Run("already absolute", func(t *testing.T) {
		got, err := expandPath("/data/leitura", "")
		require.NoError(t, err)
		assert.Equal(t, "/data/leitura", got)
	})
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"https://leitura.app", "http://localhost:3000"},
		splitOrigins("https://leitura.app, http://localhost:3000"),
	)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nLEITURA_TEST_KEY=hello\nLEITURA_QUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("LEITURA_TEST_KEY")
		os.Unsetenv("LEITURA_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("LEITURA_TEST_KEY"))
	assert.Equal(t, "world", os.Getenv("LEITURA_QUOTED"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "data/books.db", cfg.DB.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, float64(20), cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.False(t, cfg.EnableHSTS)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadEnvAndFlags(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load([]string{"--log-level=debug", "--db-dsn=postgres://localhost/books"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://localhost/books", cfg.DB.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadInvalidEnum(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load([]string{"--db-driver=oracle"})
	assert.Error(t, err)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nLOG_FORMAT=json\n"), 0o644)
	require.NoError(t, err)

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("LOG_FORMAT", "")
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.DB.DSN, "existing env must win")
	assert.Equal(t, "json", cfg.Log.Format, "missing env is filled from .env")
}

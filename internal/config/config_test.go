package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/shops?sslmode=disable"

redis:
  enabled: true
  addr: "localhost:6380"

watcher:
  enabled: true
  s3_bucket: "shop-exports"
  s3_region: "eu-west-1"
  interval_minutes: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "postgres://localhost/shops?sslmode=disable", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, "shop-exports", cfg.Watcher.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.Watcher.S3Region)
	assert.Equal(t, 10, cfg.Watcher.IntervalMinutes)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/shops"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5, cfg.Watcher.IntervalMinutes)
	assert.Equal(t, "us-east-1", cfg.Watcher.S3Region)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/dev"
`)

	t.Setenv("DATABASE_URL", "postgres://prod-host/shops")
	t.Setenv("PORT", "3000")
	t.Setenv("REDIS_ADDR", "redis-prod:6379")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://prod-host/shops", cfg.Database.URL)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "redis-prod:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: syncer
  password: secret
  dbname: portfolio
  sslmode: disable
youtube:
  api_key: test-key
  channel_id: UCtest
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTube.BaseURL)
	assert.Equal(t, 10, cfg.YouTube.PageSize)
	assert.Equal(t, 120, cfg.YouTube.ShortsThreshold)
	assert.Equal(t, 30*time.Second, cfg.YouTube.Timeout)
	assert.Equal(t, 3, cfg.YouTube.Retry.MaxAttempts)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 6*time.Hour, cfg.Sync.Interval)
	assert.Equal(t, "public/sitemap.xml", cfg.Sitemap.OutputPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RabbitMQ.Exchange, "rabbitmq defaults only apply when a URL is set")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_YT_KEY", "expanded-key")
	path := writeConfig(t, `
database:
  host: localhost
  user: syncer
  dbname: portfolio
youtube:
  api_key: ${TEST_YT_KEY}
  channel_id: UCtest
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.YouTube.APIKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  user: syncer
  dbname: portfolio
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube.api_key")
	assert.Contains(t, err.Error(), "youtube.channel_id")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}

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

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: an almost empty config file
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf := MustLoad(path)

		// Then: every other key falls back to its default
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, 5*time.Second, conf.StoreTimeout)
		assert.Equal(t, StoreTypeFile, conf.AccountStore.Type)
		assert.Equal(t, "accounts.txt", conf.AccountStore.FilePath)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 1000, conf.Websocket.MaxConnections)
		assert.Equal(t, int64(4096), conf.Websocket.ReadLimit)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
http-port: "8081"
account-store:
  type: redis
redis:
  host: cache
  port: "6380"
websocket:
  max-connections: 10
  messages-per-second: 2.5
`)

		conf := MustLoad(path)

		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, StoreTypeRedis, conf.AccountStore.Type)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 10, conf.Websocket.MaxConnections)
		assert.InDelta(t, 2.5, conf.Websocket.MessagesPerSecond, 0)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8081\"\n")
		t.Setenv("HTTP_PORT", "7070")

		conf := MustLoad(path)

		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Unknown store type", func(t *testing.T) {
		path := writeConfig(t, "account-store:\n  type: postgres\n")

		assert.Panics(t, func() { MustLoad(path) })
	})

	t.Run("Missing file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yml")) })
	})
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":     "www.example:5001",
		"endpoint_addr_grpc":     "www.example:9000",
		"database_dsn":           "memory://",
		"connect_retry_interval": "2s",
		"strict_mode":            true,
		"password_scheme":        "argon2id",
		"redis_url":              "redis://cache:6379",
		"log_level":              "debug",
		"log_format":             "text",
		"shutdown_timeout":       int64(3 * time.Second),
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, Config{
			EndpointAddrHTTP:     "www.example:5001",
			EndpointAddrGRPC:     "www.example:9000",
			DatabaseDSN:          "memory://",
			ConnectRetryInterval: 2 * time.Second,
			StrictMode:           true,
			PasswordScheme:       "argon2id",
			RedisURL:             "redis://cache:6379",
			LogLevel:             "debug",
			LogFormat:            "text",
			ShutdownTimeout:      3 * time.Second,
		}, *cfg)
	})

	t.Run("partial file only overrides named keys", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "warn"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := defaults()
		parseJson(cfg)

		want := defaults()
		want.LogLevel = "warn"
		assert.Equal(t, want, cfg)
	})

	t.Run("no config flag leaves values unchanged", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstation/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "TOOLSTATION_STORE", "TOOLSTATION_STORE_PATH", "TOOLSTATION_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolstation.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	want := Default()
	want.Storage.Path = DefaultFilePath
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
listen = "127.0.0.1:9000"

[storage]
backend = "sqlite"
watch = false

[session]
idle_timeout = "5m"

[limits]
requests_per_second = 2.5
burst = 5

[log]
level = "debug"
development = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, store.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultSQLitePath, cfg.Storage.Path)
	assert.False(t, cfg.Storage.Watch)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout.Duration)
	assert.Equal(t, 2.5, cfg.Limits.RequestsPerSecond)
	assert.Equal(t, 5, cfg.Limits.Burst)
	assert.Equal(t, int64(10<<20), cfg.Limits.MaxBodyBytes, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("TOOLSTATION_STORE", "Memory")
	t.Setenv("TOOLSTATION_LOG_LEVEL", "warn")
	path := writeConfig(t, `listen = ":1"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Listen)
	assert.Equal(t, store.BackendMemory, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, `listen = `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[session]\nidle_timeout = \"soon\""))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[storage]
backend = "redis"
[limits]
burst = -1
max_body_bytes = 0
[log]
level = "loud"
`)
	_, err := Load(path)
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"storage.backend", "limits.burst", "limits.max_body_bytes", "log.level"}, fields)
}

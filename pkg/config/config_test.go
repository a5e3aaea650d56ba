package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOVERN_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "default", cfg.Source("log_level"))
	assert.Equal(t, "default", cfg.Source("redis_addr"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("log_level: debug\nredis_addr: localhost:6379\nreconcile_schedule: \"0 3 * * *\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o600))
	t.Setenv("GOVERN_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.Source("log_level"))
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "0 3 * * *", cfg.ReconcileSchedule)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("log_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o600))
	t.Setenv("GOVERN_CONFIG_PATH", dir)
	t.Setenv("GOVERN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "environment", cfg.Source("log_level"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults ok", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"good cron", func(c *Config) { c.ReconcileSchedule = "15 2 * * *" }, false},
		{"bad cron", func(c *Config) { c.ReconcileSchedule = "never" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/govern", redactURL("postgres://user:pass@db:5432/govern"))
	assert.Equal(t, "localhost:5432", redactURL("localhost:5432"))
	assert.Equal(t, "", redactURL(""))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:learntrack.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 60, cfg.SessionTTLMinutes)
	assert.Equal(t, 300, cfg.SweepIntervalSec)
	assert.Equal(t, 1, cfg.HistoryWorkers)
	assert.Equal(t, 128, cfg.HistoryQueueSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("HISTORY_WORKER_COUNT", "4")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 15, cfg.SessionTTLMinutes)
	assert.Equal(t, 4, cfg.HistoryWorkers)
	require.NoError(t, cfg.Validate())
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL_SECONDS", "soon")

	cfg := Load()
	assert.Equal(t, 300, cfg.SweepIntervalSec)
}

func TestValidate(t *testing.T) {
	valid := Load()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing addr", func(c *Config) { c.Addr = "" }, "Addr"},
		{"missing db path", func(c *Config) { c.DBPath = "" }, "DBPath"},
		{"bad log level", func(c *Config) { c.LogLevel = "TRACE" }, "LogLevel"},
		{"zero ttl", func(c *Config) { c.SessionTTLMinutes = 0 }, "SessionTTLMinutes"},
		{"zero workers", func(c *Config) { c.HistoryWorkers = 0 }, "HistoryWorkers"},
		{"zero queue", func(c *Config) { c.HistoryQueueSize = 0 }, "HistoryQueueSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

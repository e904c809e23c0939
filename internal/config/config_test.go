package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "aimall.db", cfg.SQLitePath)
	assert.Equal(t, 100, cfg.BroadcastChunkSize)

	cfg = &Config{DBDriver: "postgres"}
	assert.Error(t, cfg.ResolveDefaults(), "postgres requires a DSN")

	cfg = &Config{DBDriver: "postgres", PostgresDSN: "postgres://localhost/aimall"}
	require.NoError(t, cfg.ResolveDefaults())

	cfg = &Config{DBDriver: "mongodb"}
	assert.Error(t, cfg.ResolveDefaults())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AIMALL_DB_DRIVER", "sqlite")
	t.Setenv("AIMALL_HTTP_PORT", "9090")
	t.Setenv("AIMALL_BROADCAST_CHUNK_SIZE", "25")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 25, cfg.BroadcastChunkSize)
	assert.Equal(t, ":9090", cfg.GetHTTPAddr())
}

func TestNewForTesting(t *testing.T) {
	cfg := NewForTesting()
	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	o := Parse()

	assert.Equal(t, "localhost:8080", o.Address)
	assert.Empty(t, o.DatabaseDSN)
	assert.Empty(t, o.SQLiteFile)
	assert.Equal(t, "admin", o.AdminUsername)
	assert.Equal(t, "emerald2024", o.AdminPassword)
	assert.Equal(t, "soft", o.RetentionMode)
	assert.Equal(t, 42, o.RetentionDays)
	assert.Equal(t, time.Hour, o.SweepInterval)
	assert.Empty(t, o.TrustedSubnet)
	assert.False(t, o.EnableHTTPS)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"sqlite_file": "/var/lib/discs/discs.db",
		"retention_mode": "hard",
		"retention_days": 30
	}`), 0o600))

	t.Setenv("CONFIG", path)
	o := Parse()

	assert.Equal(t, "/var/lib/discs/discs.db", o.SQLiteFile)
	assert.Equal(t, "hard", o.RetentionMode)
	assert.Equal(t, 30, o.RetentionDays)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("DATABASE_DSN", "postgres://localhost/discs")
	t.Setenv("ADMIN_USERNAME", "keeper")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("RETENTION_MODE", "soft")
	t.Setenv("RETENTION_DAYS", "14")
	t.Setenv("SWEEP_INTERVAL", "30m")
	t.Setenv("TRUSTED_SUBNET", "10.0.0")

	o := Parse()

	assert.Equal(t, ":9090", o.Address)
	assert.Equal(t, "postgres://localhost/discs", o.DatabaseDSN)
	assert.Equal(t, "keeper", o.AdminUsername)
	assert.Equal(t, "hunter2", o.AdminPassword)
	assert.Equal(t, "soft", o.RetentionMode)
	assert.Equal(t, 14, o.RetentionDays)
	assert.Equal(t, 30*time.Minute, o.SweepInterval)
	assert.Equal(t, "10.0.0", o.TrustedSubnet)
}

func TestParseIgnoresBadNumericEnv(t *testing.T) {
	before := *Parse()

	t.Setenv("RETENTION_DAYS", "six weeks")
	t.Setenv("SWEEP_INTERVAL", "often")

	o := Parse()

	assert.Equal(t, before.RetentionDays, o.RetentionDays)
	assert.Equal(t, before.SweepInterval, o.SweepInterval)
}

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
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"db_path": "/tmp/jf.db",
		"database_url": "postgres://localhost/jobfiltr",
		"workers": 8,
		"ghost_applicant_signals": true,
		"blocklist_ttl": "30m",
		"port": 9090
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/tmp/jf.db", cfg.DBPath)
	assert.Equal(t, "postgres://localhost/jobfiltr", cfg.DatabaseURL)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.GhostApplicantSignals)
	assert.Equal(t, 30*time.Minute, cfg.BlocklistCacheTTL())
	assert.Equal(t, DefaultScoreCacheTTL, cfg.ScoreTTL())
	assert.Equal(t, 9090, cfg.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tables := filepath.Join(t.TempDir(), "signals.yaml")
	require.NoError(t, os.WriteFile(tables, []byte("{}"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "existing tables", cfg: Config{SignalTables: tables}},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: "Workers"},
		{name: "too many workers", cfg: Config{Workers: 65}, wantErr: "Workers"},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "Port"},
		{name: "bad ttl", cfg: Config{BlocklistTTL: "soon"}, wantErr: "blocklist_ttl"},
		{name: "negative ttl", cfg: Config{ScoreCacheTTL: "-1h"}, wantErr: "score_cache_ttl"},
		{name: "missing tables", cfg: Config{SignalTables: "/nonexistent/signals.yaml"}, wantErr: "signal tables file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DBPath: "custom.db", Workers: 2}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom.db", merged.DBPath)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, "1h0m0s", merged.BlocklistTTL)
	assert.Empty(t, merged.DatabaseURL)

	// The receiver is not modified.
	assert.Zero(t, cfg.Port)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("JOBFILTR_DB_PATH", "env.db")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JOBFILTR_WORKERS", "3")
	t.Setenv("JOBFILTR_GHOST_APPLICANT_SIGNALS", "true")
	t.Setenv("JOBFILTR_SCORE_CACHE_TTL", "5m")
	t.Setenv("PORT", "3000")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.GhostApplicantSignals)
	assert.Equal(t, 5*time.Minute, cfg.ScoreTTL())
	assert.Equal(t, 3000, cfg.Port)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("JOBFILTR_WORKERS", "many")

	cfg := Defaults()
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBFILTR_WORKERS")
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := Config{BlocklistTTL: "garbage", ScoreCacheTTL: "0s"}
	assert.Equal(t, DefaultBlocklistTTL, cfg.BlocklistCacheTTL())
	assert.Equal(t, DefaultScoreCacheTTL, cfg.ScoreTTL())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiohaus/melody/pkg/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "Local Music Player", cfg.Server.Title)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)

	assert.Equal(t, "/media/music", cfg.Library.MusicDirectory)
	assert.Equal(t, "/data/melody.db", cfg.Library.IndexPath)
	assert.Equal(t, "0 3 * * *", cfg.Library.RescanSchedule)
	assert.True(t, cfg.Library.WatchEnabled)
	assert.Equal(t, 4, cfg.Library.ScanWorkers)
	assert.Equal(t, 4096, cfg.Library.TagCacheSize)

	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.Observability.OTelEnabled)
}

func TestLoadConfig_LauncherEnvironment(t *testing.T) {
	// These are the variable names the add-on launcher exports
	t.Setenv("MUSIC_DIRECTORY", "/share/music")
	t.Setenv("SERVER_PORT", "8095")
	t.Setenv("APP_TITLE", "My Jukebox")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/share/music", cfg.Library.MusicDirectory)
	assert.Equal(t, "8095", cfg.Server.Port)
	assert.Equal(t, "My Jukebox", cfg.Server.Title)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MELODY_HOST", "127.0.0.1")
	t.Setenv("MELODY_INDEX_PATH", "/tmp/index.db")
	t.Setenv("MELODY_RESCAN_SCHEDULE", "*/30 * * * *")
	t.Setenv("MELODY_WATCH_ENABLED", "false")
	t.Setenv("MELODY_SCAN_WORKERS", "8")
	t.Setenv("MELODY_TAG_CACHE_TTL", "1h")
	t.Setenv("MELODY_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/tmp/index.db", cfg.Library.IndexPath)
	assert.Equal(t, "*/30 * * * *", cfg.Library.RescanSchedule)
	assert.False(t, cfg.Library.WatchEnabled)
	assert.Equal(t, 8, cfg.Library.ScanWorkers)
	assert.Equal(t, time.Hour, cfg.Library.TagCacheTTL)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
}

func TestLoadConfig_InvalidRescanSchedule(t *testing.T) {
	t.Setenv("MELODY_RESCAN_SCHEDULE", "not a cron expression")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rescan schedule")
}

func TestValidate_PortConflict(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MELODY_HEALTH_PORT", "9090")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

func TestValidate_OTelRequiresEndpoint(t *testing.T) {
	t.Setenv("MELODY_OTEL_ENABLED", "true")
	t.Setenv("MELODY_OTEL_ENDPOINT", "")

	cfg, err := LoadConfig()
	// An empty env var falls back to the default endpoint, so this loads
	require.NoError(t, err)

	cfg.Observability.OTelEndpoint = ""
	assert.Error(t, cfg.Validate())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("MELODY_TEST_STRING", "value")
	t.Setenv("MELODY_TEST_BOOL", "1")
	t.Setenv("MELODY_TEST_INT", "42")
	t.Setenv("MELODY_TEST_BAD_INT", "forty-two")
	t.Setenv("MELODY_TEST_DURATION", "90s")

	assert.Equal(t, "value", getEnv("MELODY_TEST_STRING", "default"))
	assert.Equal(t, "default", getEnv("MELODY_TEST_UNSET", "default"))
	assert.True(t, getEnvBool("MELODY_TEST_BOOL", false))
	assert.Equal(t, 42, getEnvInt("MELODY_TEST_INT", 0))
	assert.Equal(t, 7, getEnvInt("MELODY_TEST_BAD_INT", 7))
	assert.Equal(t, 90*time.Second, getEnvDuration("MELODY_TEST_DURATION", 0))
}

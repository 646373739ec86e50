package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/audiohaus/melody/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Library configuration
	Library LibraryConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	Title           string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// LibraryConfig holds music library configuration
type LibraryConfig struct {
	MusicDirectory string
	IndexPath      string
	RescanSchedule string
	WatchEnabled   bool
	WatchDebounce  time.Duration
	ScanWorkers    int
	TagCacheSize   int
	TagCacheTTL    time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Library:       loadLibraryConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment.
// SERVER_PORT and APP_TITLE are the names the add-on launcher exports.
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:        getEnv("MELODY_HOST", "0.0.0.0"),
		Port:        getEnv("SERVER_PORT", "8080"),
		Title:       getEnv("APP_TITLE", "Local Music Player"),
		ReadTimeout: getEnvDuration("MELODY_READ_TIMEOUT", 15*time.Second),
		// No write deadline: audio streams outlive any fixed timeout
		WriteTimeout:    getEnvDuration("MELODY_WRITE_TIMEOUT", 0),
		IdleTimeout:     getEnvDuration("MELODY_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("MELODY_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("MELODY_HEALTH_PORT", "9090"),
	}
}

// loadLibraryConfig loads music library configuration from environment.
// MUSIC_DIRECTORY is the name the add-on launcher exports.
func loadLibraryConfig() LibraryConfig {
	return LibraryConfig{
		MusicDirectory: getEnv("MUSIC_DIRECTORY", "/media/music"),
		IndexPath:      getEnv("MELODY_INDEX_PATH", "/data/melody.db"),
		RescanSchedule: getEnv("MELODY_RESCAN_SCHEDULE", "0 3 * * *"),
		WatchEnabled:   getEnvBool("MELODY_WATCH_ENABLED", true),
		WatchDebounce:  getEnvDuration("MELODY_WATCH_DEBOUNCE", 2*time.Second),
		ScanWorkers:    getEnvInt("MELODY_SCAN_WORKERS", 4),
		TagCacheSize:   getEnvInt("MELODY_TAG_CACHE_SIZE", 4096),
		TagCacheTTL:    getEnvDuration("MELODY_TAG_CACHE_TTL", 24*time.Hour),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("MELODY_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("MELODY_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("MELODY_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("MELODY_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("MELODY_OTEL_SERVICE_NAME", "melody"),
		OTelServiceVersion: getEnv("MELODY_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("MELODY_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Library.MusicDirectory == "" {
		return fmt.Errorf("music directory is required")
	}
	if c.Library.IndexPath == "" {
		return fmt.Errorf("index path is required")
	}
	if c.Library.RescanSchedule != "" {
		if _, err := cron.ParseStandard(c.Library.RescanSchedule); err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", c.Library.RescanSchedule, err)
		}
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package tracksync

import (
	"github.com/movetrack/tracksync/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// DeviceConfig identifies this device in uploads.
	DeviceConfig = config.DeviceConfig
	// ServerConfig points at the remote collector.
	ServerConfig = config.ServerConfig
	// AuthConfig holds either a fixed token or login credentials.
	AuthConfig = config.AuthConfig
	// SyncConfig controls the periodic sync schedule.
	SyncConfig = config.SyncConfig
	// PostgresConfig configures the default point store.
	PostgresConfig = config.PostgresConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

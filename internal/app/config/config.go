package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/movetrack/tracksync/internal/ports"
)

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Policy   ports.Policy   `yaml:"policy"`
	Sync     SyncConfig     `yaml:"sync"`
	Postgres PostgresConfig `yaml:"postgres"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DeviceConfig struct {
	// ID identifies this device in every upload. Generated once when absent;
	// persist the generated value yourself if uploads must stay attributable
	// across restarts.
	ID      string `yaml:"id"`
	Vehicle string `yaml:"vehicle"`
}

type ServerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	// Token is used as-is when set; otherwise Username/Password drive a
	// login round-trip against the server before the first upload.
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Device.ID == "" {
		c.Device.ID = uuid.NewString()
	}
	if c.Device.Vehicle == "" {
		c.Device.Vehicle = "UNKNOWN"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Policy.LocationBatchSize == 0 {
		c.Policy.LocationBatchSize = 10_000
	}
	if c.Policy.AccelerationBatchSize == 0 {
		c.Policy.AccelerationBatchSize = 10_000
	}
	if c.Policy.RotationBatchSize == 0 {
		c.Policy.RotationBatchSize = 10_000
	}
	if c.Policy.DirectionBatchSize == 0 {
		c.Policy.DirectionBatchSize = 10_000
	}
	if c.Policy.TokenTimeout == 0 {
		c.Policy.TokenTimeout = time.Second
	}
	if c.Policy.Format == "" {
		c.Policy.Format = ports.FormatJSON
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 15 * time.Minute
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
}

func (c *Config) validate() error {
	if c.Server.Endpoint == "" {
		return fmt.Errorf("server.endpoint is required")
	}
	u, err := url.Parse(c.Server.Endpoint)
	if err != nil {
		return fmt.Errorf("server.endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.endpoint must be http or https, got %q", c.Server.Endpoint)
	}
	if c.Auth.Username != "" && c.Auth.Password == "" {
		return fmt.Errorf("auth.password is required when auth.username is set")
	}
	if c.Policy.Format != ports.FormatJSON && c.Policy.Format != ports.FormatBinary {
		return fmt.Errorf("policy.format must be %q or %q, got %q", ports.FormatJSON, ports.FormatBinary, c.Policy.Format)
	}
	if c.Sync.Interval < time.Second {
		return fmt.Errorf("sync.interval must be at least 1s, got %s", c.Sync.Interval)
	}
	return nil
}

package config

import (
	"time"

	"bioroute/internal/engine"
)

// Config is the on-disk configuration file
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Engine   engine.Limits  `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	ReadTimeout       Duration `yaml:"read_timeout"`
	WriteTimeout      Duration `yaml:"write_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigin string   `yaml:"cors_allowed_origin"`
}

// DatabaseConfig configures scenario persistence
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig locates the technology reference. Empty paths select the
// catalog compiled into the binary.
type CatalogConfig struct {
	TechnologiesPath  string `yaml:"technologies_path,omitempty"`
	TemplatesPath     string `yaml:"templates_path,omitempty"`
	Watch             bool   `yaml:"watch"`
	VersionConstraint string `yaml:"version_constraint,omitempty"`
}

// LoggingConfig selects log level and handler format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML parses duration strings like "30s" or "5m"
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML outputs duration as string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

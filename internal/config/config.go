// Package config provides configuration management for BioRoute.
//
// Config file locations (priority order):
//  1. $BIOROUTE_CONFIG
//  2. ./bioroute.yaml
//  3. $XDG_CONFIG_HOME/bioroute/config.yaml
//  4. ~/.config/bioroute/config.yaml
//  5. /etc/bioroute/config.yaml
//
// A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bioroute/internal/engine"
)

// defaultLimits bounds route size so evaluation cost stays linear
var defaultLimits = engine.Limits{MaxNodes: 500, MaxEdges: 2000}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:              ":8000",
			ReadTimeout:       Duration(10 * time.Second),
			WriteTimeout:      Duration(30 * time.Second),
			ShutdownTimeout:   Duration(10 * time.Second),
			CORSAllowedOrigin: "*",
		},
		Database: DatabaseConfig{Path: "./bioroute.db"},
		Catalog: CatalogConfig{
			Watch:             true,
			VersionConstraint: ">=1.0.0 <2.0.0",
		},
		Engine: defaultLimits,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyDefaults fills in values an explicit file left empty
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Engine.MaxNodes == 0 {
		c.Engine.MaxNodes = d.Engine.MaxNodes
	}
	if c.Engine.MaxEdges == 0 {
		c.Engine.MaxEdges = d.Engine.MaxEdges
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// Validate rejects values the server cannot run with
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Engine.MaxNodes < 0 || c.Engine.MaxEdges < 0 {
		return fmt.Errorf("engine limits must not be negative")
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	catalog := "embedded"
	if c.Catalog.TechnologiesPath != "" {
		catalog = c.Catalog.TechnologiesPath
	}
	return fmt.Sprintf("addr=%s db=%s catalog=%s watch=%t max_nodes=%d max_edges=%d",
		c.Server.Addr, c.Database.Path, catalog, c.Catalog.Watch,
		c.Engine.MaxNodes, c.Engine.MaxEdges)
}

// Package config loads iseesync configuration with koanf: built-in defaults
// first, then an optional YAML config file, then ISEE_* environment variables.
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"strings"
)

// Region selects one of the three fixed iSee server hostnames.
type Region string

const (
	RegionEU      Region = "eu"
	RegionUS      Region = "us"
	RegionPreview Region = "preview"
)

// BaseURL returns the API host for the region.
func (r Region) BaseURL() string {
	switch r {
	case RegionUS:
		return "https://isee-us.icareweb.com"
	case RegionPreview:
		return "https://isee-preview.icareweb.com"
	default:
		return "https://isee.icareweb.com"
	}
}

// Config holds all runtime configuration.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// APIConfig holds credentials and client tunables for the iSee web API.
type APIConfig struct {
	Username   string `koanf:"username"`
	Password   string `koanf:"password"`
	Region     string `koanf:"region"`      // eu, us or preview
	CustomerDB string `koanf:"customer_db"` // target customer database name
	PageSize   int    `koanf:"page_size"`   // items per page for collection endpoints
	Workers    int    `koanf:"workers"`     // concurrent page fetches
}

// DatabaseConfig holds the local operational database settings.
type DatabaseConfig struct {
	// URL is a sqlite:// path or postgres:// DSN. Empty selects the default
	// sqlite database under the user config directory.
	URL string `koanf:"url"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	switch Region(strings.ToLower(c.API.Region)) {
	case RegionEU, RegionUS, RegionPreview:
	default:
		return fmt.Errorf("invalid region %q: must be eu, us or preview", c.API.Region)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.API.PageSize)
	}
	if c.API.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.API.Workers)
	}
	return nil
}

// Region returns the parsed region.
func (c *Config) ServerRegion() Region {
	return Region(strings.ToLower(c.API.Region))
}

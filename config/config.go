// Package config loads the hdcat configuration from TOML files and
// HDCAT_-prefixed environment variables.
package config

import (
	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/rdf"
)

// Config represents the hdcat configuration
type Config struct {
	Convert ConvertConfig `mapstructure:"convert"`
	Steps   StepsConfig   `mapstructure:"steps"`
	Log     LogConfig     `mapstructure:"log"`
}

// ConvertConfig configures pipeline defaults; CLI flags override these
type ConvertConfig struct {
	Format         string   `mapstructure:"format"`          // Serialization: turtle, ntriples
	Validate       bool     `mapstructure:"validate"`        // Run the validator stage (default: true)
	AllowEmpty     bool     `mapstructure:"allow_empty"`     // Permit empty values in required fields
	RequiredFields []string `mapstructure:"required_fields"` // Fields every record must carry
}

// StepsConfig configures step discovery
type StepsConfig struct {
	ModulesDir string `mapstructure:"modules_dir"` // WASM step modules location (default: ~/.config/hdcat/steps)
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json"` // Structured JSON logs instead of console output
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// GetFormat returns the configured serialization format (default: turtle)
func (c *Config) GetFormat() string {
	if c.Convert.Format == "" {
		return rdf.FormatTurtle
	}
	return c.Convert.Format
}

// GetModulesDir returns the step modules location, falling back to the
// default under the user configuration directory
func (c *Config) GetModulesDir() string {
	if c.Steps.ModulesDir == "" {
		return DefaultModulesDir()
	}
	return c.Steps.ModulesDir
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Required fields and modules dir are optional; empty means none
	switch c.Convert.Format {
	case "", rdf.FormatTurtle, rdf.FormatNTriples:
	default:
		return errors.Newf("convert.format must be %q or %q, got %q",
			rdf.FormatTurtle, rdf.FormatNTriples, c.Convert.Format)
	}
	return nil
}

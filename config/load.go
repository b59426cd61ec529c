package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/hdcat/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the hdcat configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix("HDCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindEnvVars(v)

	// Set defaults first
	SetDefaults(v)

	// Merge config files in precedence order: system < user < project.
	// Environment variables stay above every file.
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for hdcat.toml by walking up the directory
// tree. Returns the path to the first config file found, or empty string
// if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "hdcat.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges configuration files in the correct precedence
// order: system < user < project. Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper) {
	configPaths := []string{
		"/etc/hdcat/config.toml", // System config (lowest precedence)
		UserConfigPath(),         // User config
	}

	// Project config found via upward search (highest file precedence)
	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if configPath == "" {
			continue
		}
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		// MergeInConfig keeps file values below environment variables
		_ = v.MergeInConfig()
	}
}

// ConfigDir returns the user configuration directory, ~/.config/hdcat
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hdcat")
}

// UserConfigPath returns the user config file path
func UserConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// DefaultModulesDir returns the default WASM step modules location
func DefaultModulesDir() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "steps")
}

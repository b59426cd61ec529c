package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/hdcat/rdf"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Conversion defaults
	v.SetDefault("convert.format", rdf.FormatTurtle)
	v.SetDefault("convert.validate", true)
	v.SetDefault("convert.allow_empty", true)
	v.SetDefault("convert.required_fields", []string{})

	// Step discovery defaults
	v.SetDefault("steps.modules_dir", DefaultModulesDir())

	// Logging defaults
	v.SetDefault("log.json", false)
}

// BindEnvVars explicitly binds configuration keys to environment variables
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("steps.modules_dir", "HDCAT_STEPS_MODULES_DIR")
	v.BindEnv("convert.format", "HDCAT_CONVERT_FORMAT")
	v.BindEnv("log.json", "HDCAT_LOG_JSON")
}

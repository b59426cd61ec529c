package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/rdf"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before
// modifying a config file
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Deletion failures must not fail the config save
		logger.Warnw("Failed to delete old backup", logger.FieldPath, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// WriteUserConfig marshals settings to the user config file, rotating
// backups of any previous version
func WriteUserConfig(settings map[string]any) error {
	configPath := UserConfigPath()
	if configPath == "" {
		return errors.New("could not determine home directory")
	}

	if err := os.MkdirAll(ConfigDir(), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// DefaultSettings returns the starter settings written by config init
func DefaultSettings() map[string]any {
	return map[string]any{
		"convert": map[string]any{
			"format":          rdf.FormatTurtle,
			"validate":        true,
			"allow_empty":     true,
			"required_fields": []string{},
		},
		"steps": map[string]any{
			"modules_dir": DefaultModulesDir(),
		},
		"log": map[string]any{
			"json": false,
		},
	}
}

// Init writes a starter user config file and returns its path. An
// existing file is left untouched and reported as an error.
func Init() (string, error) {
	configPath := UserConfigPath()
	if configPath == "" {
		return "", errors.New("could not determine home directory")
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, errors.Newf("config file already exists: %s", configPath)
	}

	if err := WriteUserConfig(DefaultSettings()); err != nil {
		return "", err
	}
	return configPath, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/teranos/hdcat/rdf"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Convert.Format != rdf.FormatTurtle {
		t.Errorf("expected default format %q, got %q", rdf.FormatTurtle, cfg.Convert.Format)
	}
	if !cfg.Convert.Validate {
		t.Error("expected validation enabled by default")
	}
	if !cfg.Convert.AllowEmpty {
		t.Error("expected allow_empty enabled by default")
	}
	if len(cfg.Convert.RequiredFields) != 0 {
		t.Errorf("expected no default required fields, got %v", cfg.Convert.RequiredFields)
	}
	if cfg.Log.JSON {
		t.Error("expected console logging by default")
	}
	if cfg.Steps.ModulesDir != DefaultModulesDir() {
		t.Errorf("expected default modules dir %q, got %q", DefaultModulesDir(), cfg.Steps.ModulesDir)
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"convert.format", "turtle"},
		{"convert.validate", true},
		{"convert.allow_empty", true},
		{"log.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdcat.toml")
	content := `
[convert]
format = "ntriples"
required_fields = ["name", "age"]

[steps]
modules_dir = "/opt/hdcat/steps"
`
	if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Convert.Format != rdf.FormatNTriples {
		t.Errorf("expected format ntriples, got %q", cfg.Convert.Format)
	}
	if len(cfg.Convert.RequiredFields) != 2 || cfg.Convert.RequiredFields[0] != "name" {
		t.Errorf("unexpected required fields: %v", cfg.Convert.RequiredFields)
	}
	if cfg.Steps.ModulesDir != "/opt/hdcat/steps" {
		t.Errorf("expected modules dir /opt/hdcat/steps, got %q", cfg.Steps.ModulesDir)
	}
	// Defaults still apply for unset keys
	if !cfg.Convert.Validate {
		t.Error("expected validation enabled via defaults")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty format is valid (default applies)",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "turtle is valid",
			config:  Config{Convert: ConvertConfig{Format: "turtle"}},
			wantErr: false,
		},
		{
			name:    "ntriples is valid",
			config:  Config{Convert: ConvertConfig{Format: "ntriples"}},
			wantErr: false,
		},
		{
			name:    "unknown format is invalid",
			config:  Config{Convert: ConvertConfig{Format: "jsonld"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in parent", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test1", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "test1", "hdcat.toml"), []byte(""), DefaultFilePermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if filepath.Base(result) != "hdcat.toml" {
			t.Errorf("expected hdcat.toml, got %s", filepath.Base(result))
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test2", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestGetFormatFallback(t *testing.T) {
	cfg := &Config{}
	if cfg.GetFormat() != rdf.FormatTurtle {
		t.Errorf("expected turtle fallback, got %q", cfg.GetFormat())
	}

	cfg.Convert.Format = rdf.FormatNTriples
	if cfg.GetFormat() != rdf.FormatNTriples {
		t.Errorf("expected ntriples, got %q", cfg.GetFormat())
	}
}

func TestInitAndBackupRotation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := Init()
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	// A second init refuses to overwrite
	if _, err := Init(); err == nil {
		t.Fatal("expected error when config already exists")
	}

	// Each write rotates backups, keeping at most three
	for i := 0; i < 4; i++ {
		if err := WriteUserConfig(DefaultSettings()); err != nil {
			t.Fatalf("WriteUserConfig() failed: %v", err)
		}
	}
	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		if _, err := os.Stat(path + suffix); err != nil {
			t.Errorf("expected backup %s: %v", suffix, err)
		}
	}
	if _, err := os.Stat(path + ".back4"); err == nil {
		t.Error("expected at most three backups")
	}

	// The written file loads back
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if cfg.Convert.Format != rdf.FormatTurtle {
		t.Errorf("expected turtle in starter config, got %q", cfg.Convert.Format)
	}
}

func TestReset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Convert.Format != rdf.FormatTurtle {
		t.Errorf("expected turtle default, got %q", cfg.Convert.Format)
	}

	// Load caches; Reset clears the cache
	again, _ := Load()
	if again != cfg {
		t.Error("expected cached config instance")
	}
	Reset()
	fresh, err := Load()
	if err != nil {
		t.Fatalf("Load() after Reset failed: %v", err)
	}
	if fresh == cfg {
		t.Error("expected a fresh config instance after Reset")
	}
}

package wasmstep

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/hdcat/errors"
)

// Manifest is the optional TOML sidecar describing a step module.
// A module without a sidecar runs with defaults: enabled, named after
// its file stem, no API version constraint.
type Manifest struct {
	// Name is the step identifier; overrides the module's own step_name
	Name string `toml:"name"`

	// Description is shown by the steps listing
	Description string `toml:"description"`

	// Enabled controls whether the module is loaded
	Enabled bool `toml:"enabled"`

	// APIVersion is a semver constraint checked against the host's
	// step ABI version, e.g. ">= 1.0.0, < 2"
	APIVersion string `toml:"api_version"`
}

// ManifestPath returns the sidecar path for a module file:
// transform.wasm -> transform.wasm.toml.
func ManifestPath(modulePath string) string {
	return modulePath + ".toml"
}

// LoadManifest reads a manifest file. A missing file is not an error; the
// returned manifest carries the defaults.
func LoadManifest(path string) (Manifest, error) {
	manifest := Manifest{Enabled: true}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return manifest, nil
		}
		return manifest, errors.Wrapf(err, "read manifest %s", path)
	}

	if err := toml.Unmarshal(data, &manifest); err != nil {
		return manifest, errors.Wrapf(err, "parse manifest %s", path)
	}
	return manifest, nil
}

// CheckAPIVersion verifies the manifest's constraint against the host's
// APIVersion. An empty constraint always passes.
func (m Manifest) CheckAPIVersion() error {
	if m.APIVersion == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.APIVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid api_version constraint %q", m.APIVersion)
	}
	if !c.Check(semver.MustParse(APIVersion)) {
		return errors.Newf("module requires api_version %q, host provides %s", m.APIVersion, APIVersion)
	}
	return nil
}

package pipeline

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teranos/hdcat/errors"
)

// ProfileFromYAML reads conversion options from a YAML profile file. Keys
// missing from the profile keep their default values, so a profile only
// needs to name what it changes.
func ProfileFromYAML(path string) (ConvertOptions, error) {
	opts := DefaultConvertOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrapf(err, "read profile %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parse profile %s", path)
	}
	return opts, nil
}

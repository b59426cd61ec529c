package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/rdf"
)

// =====
// Profile loading
// =====

func TestProfileFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `format: ntriples
dataset_uri: http://data.example.org/patients
required_fields:
  - name
  - age
allow_empty: true
keywords:
  - health
  - demo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := ProfileFromYAML(path)
	require.NoError(t, err)

	assert.Equal(t, rdf.FormatNTriples, opts.Format)
	assert.Equal(t, "http://data.example.org/patients", opts.DatasetURI)
	assert.Equal(t, []string{"name", "age"}, opts.RequiredFields)
	assert.True(t, opts.AllowEmpty)
	assert.Equal(t, []string{"health", "demo"}, opts.Keywords)
	// Unspecified keys keep their defaults.
	assert.True(t, opts.Validate)
}

func TestProfileFromYAMLPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validate: false\n"), 0o644))

	opts, err := ProfileFromYAML(path)
	require.NoError(t, err)

	assert.False(t, opts.Validate)
	assert.Equal(t, rdf.FormatTurtle, opts.Format)
	assert.Empty(t, opts.RequiredFields)
}

func TestProfileFromYAMLMissingFile(t *testing.T) {
	_, err := ProfileFromYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read profile")
}

func TestProfileFromYAMLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: [unclosed\n"), 0o644))

	_, err := ProfileFromYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse profile")
}

func TestProfileDrivesConversion(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("format: ntriples\nvalidate: false\n"), 0o644))

	source := writeSource(t, "patients.csv", "name,age\nAlice,30\n")
	opts, err := ProfileFromYAML(profile)
	require.NoError(t, err)

	c := New(source, newRegistry(), nil)
	doc, err := c.Convert(context.Background(), opts)
	require.NoError(t, err)

	assert.Contains(t, doc, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>")
	assert.NotContains(t, doc, "@prefix")
}

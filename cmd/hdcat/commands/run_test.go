package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

func TestCollectStepOptions(t *testing.T) {
	optionsFile := filepath.Join(t.TempDir(), "options.yaml")
	content := `required_fields:
  - name
  - age
allow_empty: false
format: turtle
`
	require.NoError(t, os.WriteFile(optionsFile, []byte(content), 0o644))

	runOptionsFile = optionsFile
	runOpts = []string{"format=ntriples", "dataset_uri=http://data.example.org/d1"}
	defer func() {
		runOptionsFile = ""
		runOpts = nil
	}()

	opts, err := collectStepOptions()
	require.NoError(t, err)

	// --opt pairs win over the options file
	assert.Equal(t, "ntriples", opts.String(step.OptFormat, ""))
	assert.Equal(t, "http://data.example.org/d1", opts.String(step.OptDatasetURI, ""))
	assert.Equal(t, []string{"name", "age"}, opts.Strings(step.OptRequiredFields, nil))
	assert.False(t, opts.Bool(step.OptAllowEmpty, true))
}

func TestCollectStepOptionsRejectsMalformedPair(t *testing.T) {
	runOpts = []string{"no-equals-sign"}
	defer func() { runOpts = nil }()

	_, err := collectStepOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestCollectStepOptionsMissingFile(t *testing.T) {
	runOptionsFile = filepath.Join(t.TempDir(), "absent.yaml")
	defer func() { runOptionsFile = "" }()

	_, err := collectStepOptions()
	require.Error(t, err)
}

func TestFieldUnion(t *testing.T) {
	r1 := record.New()
	r1.Set("name", record.Text("Alice"))
	r1.Set("age", record.Text("30"))
	r2 := record.New()
	r2.Set("name", record.Text("Bob"))
	r2.Set("city", record.Text("Oslo"))

	assert.Equal(t, []string{"name", "age", "city"}, fieldUnion(record.Set{r1, r2}))
	assert.Empty(t, fieldUnion(record.Set{}))
}

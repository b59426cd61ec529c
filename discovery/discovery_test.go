package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/step"
	"github.com/teranos/hdcat/steps"
)

var builtinNames = []string{
	steps.NameCSVReader,
	steps.NameFilter,
	steps.NameTransform,
	steps.NameRDFGenerator,
	steps.NameValidator,
}

// =============================================================================
// Loading
// =============================================================================

func TestLoadRegistersBuiltins(t *testing.T) {
	reg := step.NewRegistry()
	loader := New(reg, t.TempDir())

	names, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, builtinNames, names)
	assert.True(t, loader.Loaded())
}

func TestLoadIsIdempotent(t *testing.T) {
	reg := step.NewRegistry()
	loader := New(reg, t.TempDir())

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	reader, ok := reg.Get(steps.NameCSVReader)
	require.True(t, ok)

	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, len(builtinNames), reg.Len())

	// The second call must not re-register: same instances survive
	again, ok := reg.Get(steps.NameCSVReader)
	require.True(t, ok)
	assert.Same(t, reader, again)
}

func TestLoadWithoutModulesDir(t *testing.T) {
	reg := step.NewRegistry()
	loader := New(reg, "")

	names, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, builtinNames, names)
}

// =============================================================================
// Soft failures
// =============================================================================

func TestLoadMissingDirIsWarningOnly(t *testing.T) {
	reg := step.NewRegistry()
	loader := New(reg, filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, builtinNames, names)
	assert.True(t, loader.Loaded())
}

func TestLoadSkipsBrokenModules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.wasm"), []byte("not wasm"), 0o644))
	// Valid binary, but exports nothing
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bare.wasm"),
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, 0o644))
	// Not a module at all; must be ignored, not loaded
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("readme"), 0o644))

	reg := step.NewRegistry()
	loader := New(reg, dir)

	names, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, builtinNames, names)
}

func TestLoadSkipsDisabledModules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "off.wasm"),
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "off.wasm.toml"),
		[]byte("enabled = false"), 0o644))

	reg := step.NewRegistry()
	loader := New(reg, dir)

	names, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, builtinNames, names)
}

// =============================================================================
// Cancellation
// =============================================================================

func TestLoadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := step.NewRegistry()
	loader := New(reg, t.TempDir())

	_, err := loader.Load(ctx)
	require.Error(t, err)
	assert.False(t, loader.Loaded())

	// A live context recovers
	names, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, builtinNames, names)
}

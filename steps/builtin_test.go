package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/step"
)

// =============================================================================
// Registration
// =============================================================================

func TestRegisterBuiltins(t *testing.T) {
	reg := step.NewRegistry()
	RegisterBuiltins(reg)

	assert.Equal(t, []string{
		NameCSVReader,
		NameFilter,
		NameTransform,
		NameRDFGenerator,
		NameValidator,
	}, reg.Names())
}

func TestRegisterBuiltinsTwiceReplacesInstances(t *testing.T) {
	reg := step.NewRegistry()
	RegisterBuiltins(reg)
	first, ok := reg.Get(NameCSVReader)
	require.True(t, ok)

	RegisterBuiltins(reg)
	second, ok := reg.Get(NameCSVReader)
	require.True(t, ok)

	assert.Equal(t, 5, reg.Len())
	assert.NotSame(t, first, second)
}

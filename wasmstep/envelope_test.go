package wasmstep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// =============================================================================
// Requests
// =============================================================================

func TestEncodeRequestUnwrapsRecords(t *testing.T) {
	r := record.New()
	r.Set("name", record.Text("Alice"))
	r.Set("age", record.Integer(30))

	payload, err := encodeRequest(record.Set{r}, step.Options{"format": "turtle"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"input": [{"name": "Alice", "age": 30}],
		"options": {"format": "turtle"}
	}`, payload)
}

func TestEncodeRequestScalarInput(t *testing.T) {
	payload, err := encodeRequest("/data/patients.csv", nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"input": "/data/patients.csv", "options": null}`, payload)
}

// =============================================================================
// Responses
// =============================================================================

func TestDecodeResponseRecordSet(t *testing.T) {
	out, err := decodeResponse(`{"output": [{"name": "Alice", "age": 30, "temp": 98.6, "active": true}]}`)
	require.NoError(t, err)

	set, ok := out.(record.Set)
	require.True(t, ok)
	require.Len(t, set, 1)

	assert.Equal(t, record.Text("Alice"), set[0].Value("name"))
	assert.Equal(t, record.Integer(30), set[0].Value("age"))
	assert.Equal(t, record.Decimal(98.6), set[0].Value("temp"))
	assert.Equal(t, record.Bool(true), set[0].Value("active"))
}

func TestDecodeResponseEmptyArrayIsEmptySet(t *testing.T) {
	out, err := decodeResponse(`{"output": []}`)
	require.NoError(t, err)

	set, ok := out.(record.Set)
	require.True(t, ok)
	assert.Empty(t, set)
}

func TestDecodeResponseScalars(t *testing.T) {
	out, err := decodeResponse(`{"output": "@prefix dcat: ..."}`)
	require.NoError(t, err)
	assert.Equal(t, "@prefix dcat: ...", out)

	out, err = decodeResponse(`{"output": 3}`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)

	out, err = decodeResponse(`{"output": 3.5}`)
	require.NoError(t, err)
	assert.Equal(t, 3.5, out)
}

func TestDecodeResponseMixedArrayStaysPlain(t *testing.T) {
	out, err := decodeResponse(`{"output": [1, {"a": 2}]}`)
	require.NoError(t, err)

	items, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0])
	assert.Equal(t, map[string]any{"a": int64(2)}, items[1])
}

func TestDecodeResponseError(t *testing.T) {
	_, err := decodeResponse(`{"output": null, "error": "module exploded"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module exploded")
}

func TestDecodeResponseMalformed(t *testing.T) {
	_, err := decodeResponse(`{"output": `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode step response")
}

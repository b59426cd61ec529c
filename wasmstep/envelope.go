package wasmstep

import (
	"encoding/json"
	"strings"

	"github.com/teranos/hdcat/errors"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// Request is the JSON envelope handed to a module's execute export.
type Request struct {
	Input   any          `json:"input"`
	Options step.Options `json:"options"`
}

// Response is the JSON envelope a module's execute export returns. A
// non-empty Error fails the step; Output is ignored in that case.
type Response struct {
	Output any    `json:"output"`
	Error  string `json:"error,omitempty"`
}

// encodeRequest marshals input and options for the module boundary.
// Records unwrap into plain objects so modules see ordinary JSON.
func encodeRequest(input any, opts step.Options) (string, error) {
	switch t := input.(type) {
	case record.Set:
		input = t.ToMaps()
	case record.Record:
		input = t.ToMap()
	}

	payload, err := json.Marshal(Request{Input: input, Options: opts})
	if err != nil {
		return "", errors.Wrap(err, "encode step request")
	}
	return string(payload), nil
}

// decodeResponse parses a module's response envelope. Arrays of objects
// decode into a record set so module output composes with builtin steps;
// everything else decodes as plain values with numbers narrowed to
// int64 or float64.
func decodeResponse(payload string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "decode step response")
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return decodeOutput(resp.Output), nil
}

func decodeOutput(v any) any {
	if items, ok := v.([]any); ok {
		maps := make([]map[string]any, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return normalizeJSON(v)
			}
			maps = append(maps, m)
		}
		return record.SetFromMaps(maps)
	}
	return normalizeJSON(v)
}

// normalizeJSON narrows json.Number values left by UseNumber decoding.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeJSON(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeJSON(t[k])
		}
		return t
	default:
		return v
	}
}

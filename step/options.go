package step

import (
	"github.com/spf13/cast"
)

// Options is the named, optional configuration bag passed to Execute.
// Values arrive from CLI flags, YAML profiles, or callers; the getters
// coerce loosely typed values so "true", 1, and true all satisfy a boolean
// option.
type Options map[string]any

// Option keys shared by the builtin steps.
const (
	OptRequiredFields = "required_fields"
	OptAllowEmpty     = "allow_empty"
	OptFormat         = "format"
	OptDatasetURI     = "dataset_uri"
)

// Has reports whether the key is present
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the option coerced to a string, or def when missing
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Bool returns the option coerced to a bool, or def when missing
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns the option coerced to an int, or def when missing
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// Strings returns the option coerced to a string slice. Missing keys return
// def; a scalar string splits on whitespace.
func (o Options) Strings(key string, def []string) []string {
	v, ok := o[key]
	if !ok {
		return def
	}
	ss, err := cast.ToStringSliceE(v)
	if err != nil {
		return def
	}
	return ss
}

// Clone returns a shallow copy of the options bag
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

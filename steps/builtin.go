// Package steps provides the builtin processing steps: the three pipeline
// stages (csv_reader, validator, rdf_generator) and the example
// transform/filter steps.
//
// Builtins are registered explicitly through RegisterBuiltins; nothing here
// self-registers at import time. External step modules are loaded separately
// by the discovery loader.
package steps

import (
	"github.com/teranos/hdcat/step"
)

// Registry keys for the builtin steps.
const (
	NameCSVReader    = "csv_reader"
	NameValidator    = "validator"
	NameRDFGenerator = "rdf_generator"
	NameTransform    = "custom_transform"
	NameFilter       = "custom_filter"
)

// RegisterBuiltins constructs one instance of every builtin step and
// registers it. Calling it twice replaces each builtin with a fresh
// instance (last write wins).
func RegisterBuiltins(reg *step.Registry) {
	reg.Register(NewCSVReader())
	reg.Register(NewValidator())
	reg.Register(NewRDFGenerator())
	reg.Register(NewTransform())
	reg.Register(NewFilter())
}

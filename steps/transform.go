package steps

import (
	"context"

	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// Options understood by the custom_transform step.
const (
	OptAddField = "add_field"
	OptAddValue = "add_value"
)

// Transform is an example step that stamps every record with provenance
// markers and optionally injects one extra field. It demonstrates how an
// ad hoc step reshapes a record set between pipeline stages.
type Transform struct{}

// NewTransform returns the builtin custom_transform step.
func NewTransform() *Transform {
	return &Transform{}
}

// Name implements step.Step.
func (s *Transform) Name() string { return NameTransform }

// Describe implements step.Describer.
func (s *Transform) Describe() string {
	return "Stamps records with provenance markers and an optional extra field"
}

// Execute returns a copy of the input set where every record carries
// _transformed and _plugin markers, plus add_field=add_value when the
// add_field option is set. Input that is not a record set passes through
// unchanged.
func (s *Transform) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	set, ok := input.(record.Set)
	if !ok {
		return input, nil
	}

	addField := opts.String(OptAddField, "")

	out := set.Clone()
	for i := range out {
		out[i].Set("_transformed", record.Bool(true))
		out[i].Set("_plugin", record.Text(NameTransform))
		if addField != "" {
			out[i].Set(addField, record.FromAny(opts[OptAddValue]))
		}
	}

	logger.Debugw("Transformed records",
		logger.FieldStep, NameTransform,
		logger.FieldRows, len(out))

	return out, nil
}

package steps

import (
	"context"

	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// Options understood by the custom_filter step.
const (
	OptFilterKey   = "filter_key"
	OptFilterValue = "filter_value"
)

// Filter is an example step that keeps only the records whose filter_key
// field lexically equals filter_value.
type Filter struct{}

// NewFilter returns the builtin custom_filter step.
func NewFilter() *Filter {
	return &Filter{}
}

// Name implements step.Step.
func (s *Filter) Name() string { return NameFilter }

// Describe implements step.Describer.
func (s *Filter) Describe() string {
	return "Keeps records whose filter_key field equals filter_value"
}

// Execute filters the input set. Without a filter_key option the set passes
// through unchanged. Records missing the field are dropped; values are
// compared by their lexical form. Input that is not a record set passes
// through unchanged.
func (s *Filter) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	set, ok := input.(record.Set)
	if !ok {
		return input, nil
	}

	key := opts.String(OptFilterKey, "")
	if key == "" {
		return set, nil
	}
	want := opts.String(OptFilterValue, "")

	out := record.Set{}
	for _, r := range set {
		if r.Has(key) && r.Value(key).String() == want {
			out = append(out, r.Clone())
		}
	}

	logger.Infow("Filtered records",
		logger.FieldStep, NameFilter,
		"before", len(set),
		"after", len(out))

	return out, nil
}

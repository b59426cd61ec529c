package steps

import (
	"context"
	"fmt"

	"github.com/teranos/hdcat/logger"
	"github.com/teranos/hdcat/record"
	"github.com/teranos/hdcat/step"
)

// ValidationResult is the outcome of the validator step. Structural
// problems and missing fields land in Errors; Warnings carry advisory
// findings that never fail a conversion.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validator checks a record set against the required-field rules before
// generation. It reports findings instead of returning an error so callers
// can surface every problem at once.
type Validator struct{}

// NewValidator returns the builtin validator step.
func NewValidator() *Validator {
	return &Validator{}
}

// Name implements step.Step.
func (s *Validator) Name() string { return NameValidator }

// Describe implements step.Describer.
func (s *Validator) Describe() string {
	return "Validates a record set against required-field rules"
}

// Execute validates input, which must be a record set. Options:
// required_fields lists the fields every record must carry, and
// allow_empty (default true) permits present-but-empty values for those
// fields. The row index in findings is zero-based.
func (s *Validator) Execute(ctx context.Context, input any, opts step.Options) (any, error) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	set, ok := input.(record.Set)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, "Input must be a record set")
		return result, nil
	}

	if len(set) == 0 {
		result.Warnings = append(result.Warnings, "Dataset is empty")
	}

	required := opts.Strings(step.OptRequiredFields, nil)
	allowEmpty := opts.Bool(step.OptAllowEmpty, true)

	for i, r := range set {
		for _, field := range required {
			if !r.Has(field) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d missing required field: %s", i, field))
				continue
			}
			if !allowEmpty && r.Value(field).IsEmpty() {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d has empty value for required field: %s", i, field))
			}
		}
	}

	logger.Debugw("Validated record set",
		logger.FieldStep, NameValidator,
		logger.FieldRows, len(set),
		"valid", result.Valid,
		"errors", len(result.Errors),
		logger.FieldWarnings, len(result.Warnings))

	return result, nil
}

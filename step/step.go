// Package step provides the processing-step architecture for the converter.
//
// A step is a named, independently invokable unit of work. Steps take an
// input (usually a record set) and an options bag, and return a transformed
// result. The builtin pipeline stages, the example transform/filter steps,
// and externally loaded step modules all implement the same interface.
//
// Architecture:
//   - Steps are registered explicitly into an injected Registry; there is no
//     ambient global registry and no self-registration at import time
//   - The registry is populated once by discovery at startup and is
//     read-mostly afterward
//   - Re-registering a name overwrites the previous implementation
//     (last writer wins) and logs a warning
package step

import (
	"context"
)

// Step is the capability interface every processing step implements.
type Step interface {
	// Name returns the stable identifier used as the registry key
	Name() string

	// Execute runs the step. Input is typically a record.Set; readers take a
	// source path instead. Options carries named, optional configuration.
	Execute(ctx context.Context, input any, opts Options) (any, error)
}

// Describer is an optional interface for steps that expose a human-readable
// description for listings.
type Describer interface {
	Describe() string
}

// Describe returns the step's description when it implements Describer,
// empty string otherwise.
func Describe(s Step) string {
	if d, ok := s.(Describer); ok {
		return d.Describe()
	}
	return ""
}

// Func adapts a function to the Step interface, for ad hoc and test steps.
type Func struct {
	StepName string
	Fn       func(ctx context.Context, input any, opts Options) (any, error)
}

// Name implements Step
func (f Func) Name() string {
	return f.StepName
}

// Execute implements Step
func (f Func) Execute(ctx context.Context, input any, opts Options) (any, error) {
	return f.Fn(ctx, input, opts)
}

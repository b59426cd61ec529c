package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID = "run_id"

	// Components
	FieldComponent = "component"
	FieldStep      = "step"
	FieldModule    = "module"

	// Operations
	FieldSource = "source"
	FieldFormat = "format"
	FieldPath   = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldRows     = "rows"
	FieldColumns  = "columns"
	FieldTriples  = "triples"
	FieldWarnings = "warnings"
	FieldCount    = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Converter struct {
//	    log *zap.SugaredLogger
//	}
//
//	func New(...) *Converter {
//	    return &Converter{
//	        log: logger.ComponentLogger("pipeline"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	runLogger := logger.ChildLogger(baseLogger, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

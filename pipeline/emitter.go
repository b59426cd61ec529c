package pipeline

import (
	"github.com/pterm/pterm"

	"github.com/teranos/hdcat/logger"
)

// WarningEmitter is the side channel for non-fatal findings raised during
// a conversion. Warnings never abort the pipeline; the emitter decides how
// they reach the user. stage is the name of the step that raised the
// finding.
type WarningEmitter interface {
	Warning(stage, msg string)
}

// CLIEmitter prints warnings to the terminal.
type CLIEmitter struct{}

func (CLIEmitter) Warning(stage, msg string) {
	pterm.Warning.Printfln("%s: %s", stage, msg)
}

// JSONEmitter routes warnings through the structured log, keeping stdout
// clean for the generated document.
type JSONEmitter struct{}

func (JSONEmitter) Warning(stage, msg string) {
	logger.Warnw(msg, logger.FieldStep, stage)
}

// NopEmitter discards warnings.
type NopEmitter struct{}

func (NopEmitter) Warning(string, string) {}

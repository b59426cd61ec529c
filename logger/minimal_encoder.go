package logger

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg     = "\x1b[38;5;223m" // Soft beige
	colorTime   = "\x1b[38;5;107m" // Mid green
	colorName   = "\x1b[38;5;208m" // Warm orange
	colorValue  = "\x1b[38;5;108m" // Bright green
	colorID     = "\x1b[38;5;109m" // Blue-green
	colorWarn   = "\x1b[38;5;179m" // Soft yellow
	colorWarnBg = "\x1b[48;5;58m"
	colorErr    = "\x1b[38;5;167m" // Warm red
	colorErrBg  = "\x1b[48;5;52m"
)

// Field keys rendered with the ID color instead of the value color.
var idFieldKeys = map[string]bool{
	"run_id": true,
	"step":   true,
	"source": true,
}

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  pipeline  validation passed  rows=2"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Base JSON encoder handles field serialization for types the value
	// extractor does not special-case
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	// Component name (abbreviated) for visual grouping
	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorName)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	// Every field is rendered; nothing is silently discarded
	if len(fields) > 0 {
		if rendered := renderFields(fields); rendered != "" {
			final.AppendString("  ")
			final.AppendString(rendered)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorErrBg + colorErr + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorErrBg + colorErr + level.CapitalString() + colorReset
	case zapcore.DebugLevel:
		return colorID + "DEBUG" + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens dotted component names: discovery.wasm -> d.wasm
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValue extracts a printable value from a zap field, handling the
// common field types
func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return trimFloat(fmt.Sprintf("%f", math.Float64frombits(uint64(field.Integer))))
	case zapcore.Float32Type:
		return trimFloat(fmt.Sprintf("%f", math.Float32frombits(uint32(field.Integer))))
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			return err.Error()
		}
		return ""
	case zapcore.DurationType:
		return fmt.Sprintf("%dms", field.Integer/1e6)
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	if field.String != "" {
		return field.String
	}
	return fmt.Sprintf("%d", field.Integer)
}

func trimFloat(s string) string {
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// renderFields renders all structured fields as key=value pairs, coloring
// identifiers and plain values differently
func renderFields(fields []zapcore.Field) string {
	var pairs []string
	for _, field := range fields {
		val := fieldValue(field)
		if field.Key == "" || (field.Type == zapcore.ErrorType && val == "") {
			continue
		}
		color := colorValue
		if idFieldKeys[field.Key] {
			color = colorID
		}
		if field.Key == FieldError {
			color = colorErr
		}
		pairs = append(pairs, colorFg+field.Key+"="+colorReset+color+val+colorReset)
	}
	return strings.Join(pairs, " ")
}

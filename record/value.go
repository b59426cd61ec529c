package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which member of the value sum a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindInteger
	KindDecimal
	KindBool
)

// String returns the lowercase kind name, matching the datatype labels the
// generator emits.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "string"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "boolean"
	default:
		return "absent"
	}
}

// Value is a closed sum over {text, integer, decimal, boolean, absent}.
// Field values are inspected through Kind() and the typed accessors rather
// than runtime type switches on interface{}.
//
// The zero Value is absent.
type Value struct {
	kind    Kind
	text    string
	integer int64
	decimal float64
	boolean bool
}

// Text wraps a string value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Integer wraps an integer value
func Integer(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// Decimal wraps a decimal value
func Decimal(f float64) Value {
	return Value{kind: KindDecimal, decimal: f}
}

// Bool wraps a boolean value
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Absent is the missing-value member of the sum
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Kind returns which member of the sum this value holds
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value is the absent member
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsEmpty reports whether the value is absent or an empty text value.
// Validation and datatype inference both treat these the same way.
func (v Value) IsEmpty() bool {
	return v.kind == KindAbsent || (v.kind == KindText && v.text == "")
}

// String renders the lexical form of the value. Absent renders as the
// empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.decimal, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// InferredKind reclassifies text values whose lexical form parses as an
// integer or decimal, ignoring surrounding whitespace. Non-text kinds
// report themselves unchanged. Used by column datatype inference; the
// stored value keeps its original kind.
func (v Value) InferredKind() Kind {
	if v.kind != KindText {
		return v.kind
	}
	t := strings.TrimSpace(v.text)
	if _, err := strconv.ParseInt(t, 10, 64); err == nil {
		return KindInteger
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return KindDecimal
	}
	return KindText
}

// Interface unwraps the value for serialization boundaries (JSON envelopes,
// YAML). Absent unwraps to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return v.integer
	case KindDecimal:
		return v.decimal
	case KindBool:
		return v.boolean
	default:
		return nil
	}
}

// FromAny converts a dynamically-typed value (as produced by JSON or YAML
// decoding) into the sum. json.Number is classified as integer when it
// parses as one, decimal otherwise. Unrecognized types fall back to their
// default string rendering.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Absent()
	case Value:
		return t
	case string:
		return Text(t)
	case bool:
		return Bool(t)
	case int:
		return Integer(int64(t))
	case int8:
		return Integer(int64(t))
	case int16:
		return Integer(int64(t))
	case int32:
		return Integer(int64(t))
	case int64:
		return Integer(t)
	case uint:
		return Integer(int64(t))
	case uint8:
		return Integer(int64(t))
	case uint16:
		return Integer(int64(t))
	case uint32:
		return Integer(int64(t))
	case float32:
		return Decimal(float64(t))
	case float64:
		return Decimal(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Integer(i)
		}
		if f, err := t.Float64(); err == nil {
			return Decimal(f)
		}
		return Text(t.String())
	default:
		return Text(stringify(t))
	}
}

func stringify(x any) string {
	if s, ok := x.(interface{ String() string }); ok {
		return s.String()
	}
	b, err := json.Marshal(x)
	if err != nil {
		return ""
	}
	return string(b)
}

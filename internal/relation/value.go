package relation

import (
	"fmt"
	"reflect"
	"strings"
)

// Value is a single cell value.
//
// A Value with Valid == false is "no value": the representation of an
// unmatched join cell or a cell past the end of a short row.
type Value struct {
	// Raw holds the underlying value (usually a string read from a sheet).
	Raw interface{}

	// Valid reports whether the cell has a value at all.
	Valid bool
}

// NoValue is the value returned for cells that have no counterpart.
var NoValue = Value{}

// NewValue wraps a raw value. A nil raw value yields NoValue.
func NewValue(raw interface{}) Value {
	if raw == nil {
		return NoValue
	}
	return Value{Raw: raw, Valid: true}
}

// Text wraps a string value.
func Text(s string) Value {
	return Value{Raw: s, Valid: true}
}

// IsEmpty reports whether the value cannot take part in key matching:
// no value, nil, a blank string, or a value whose type is not comparable.
func (v Value) IsEmpty() bool {
	if !v.Valid || v.Raw == nil {
		return true
	}
	if s, ok := v.Raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return !reflect.TypeOf(v.Raw).Comparable()
}

// String returns the display form of the value. No value displays as "".
func (v Value) String() string {
	if !v.Valid || v.Raw == nil {
		return ""
	}
	if s, ok := v.Raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v.Raw)
}

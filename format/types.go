// Package format defines the value types of the well log format and their
// fixed binary field widths.
package format

import (
	"fmt"

	"github.com/arloliu/jwlf/errs"
)

// ValueType is the value type of a curve.
type ValueType uint8

const (
	TypeFloat    ValueType = 0x1 // TypeFloat represents IEEE-754 double values.
	TypeInteger  ValueType = 0x2 // TypeInteger represents signed 64-bit integers.
	TypeString   ValueType = 0x3 // TypeString represents UTF-8 text.
	TypeBoolean  ValueType = 0x4 // TypeBoolean represents true/false values.
	TypeDateTime ValueType = 0x5 // TypeDateTime represents ISO-8601 date/time values.
)

// Binary field widths in bytes.
const (
	FloatSize    = 8
	IntegerSize  = 8
	BooleanSize  = 1
	DateTimeSize = 30

	// DefaultStringSize is the string field width used when a curve
	// definition does not declare maxSize.
	DefaultStringSize = 20
)

// ValueTypes lists every value type in declaration order.
var ValueTypes = []ValueType{TypeFloat, TypeInteger, TypeString, TypeBoolean, TypeDateTime}

func (t ValueType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the declared value types.
func (t ValueType) Valid() bool {
	return t >= TypeFloat && t <= TypeDateTime
}

// IsNumeric reports whether values of this type order numerically,
// which is required for an index curve.
func (t ValueType) IsNumeric() bool {
	return t == TypeFloat || t == TypeInteger || t == TypeDateTime
}

// FixedSize returns the binary field width of t, or 0 for strings whose width
// is declared per curve.
func (t ValueType) FixedSize() int {
	switch t {
	case TypeFloat:
		return FloatSize
	case TypeInteger:
		return IntegerSize
	case TypeBoolean:
		return BooleanSize
	case TypeDateTime:
		return DateTimeSize
	default:
		return 0
	}
}

// ParseValueType returns the value type named by s.
//
// The match is exact, as written in a curve definition's "valueType".
func ParseValueType(s string) (ValueType, error) {
	for _, t := range ValueTypes {
		if t.String() == s {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidValueType, s)
}

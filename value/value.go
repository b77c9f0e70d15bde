// Package value implements the tagged value used for single cells of a well
// log and the coercion rules between the five value types.
//
// A Value is either a no-value (the format's null) or holds exactly one of a
// float64, int64, string, bool or time.Time. The zero Value is a no-value.
package value

import (
	"math"
	"strconv"
	"time"

	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/isodate"
)

// Value is an immutable tagged scalar.
type Value struct {
	typ format.ValueType // 0 means no-value
	f   float64
	i   int64
	s   string
	t   time.Time
}

// Null returns the no-value.
func Null() Value { return Value{} }

// Float returns a float value. NaN becomes a no-value.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}

	return Value{typ: format.TypeFloat, f: f}
}

// Int returns an integer value.
func Int(i int64) Value { return Value{typ: format.TypeInteger, i: i} }

// String returns a string value.
func String(s string) Value { return Value{typ: format.TypeString, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{typ: format.TypeBoolean}
	if b {
		v.i = 1
	}

	return v
}

// DateTime returns a datetime value. The zero time becomes a no-value.
func DateTime(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}

	return Value{typ: format.TypeDateTime, t: t.UTC()}
}

// IsNull reports whether v is the no-value.
func (v Value) IsNull() bool { return v.typ == 0 }

// Type returns the value type held by v. The second result is false for a no-value.
func (v Value) Type() (format.ValueType, bool) { return v.typ, v.typ != 0 }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.typ == format.TypeFloat }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.typ == format.TypeInteger }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.typ == format.TypeString }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.i != 0, v.typ == format.TypeBoolean }

// AsTime returns the time held by v.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.typ == format.TypeDateTime }

// Equal reports whether v and other hold the same type and value.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}

	switch v.typ {
	case format.TypeFloat:
		return v.f == other.f
	case format.TypeInteger, format.TypeBoolean:
		return v.i == other.i
	case format.TypeString:
		return v.s == other.s
	case format.TypeDateTime:
		return v.t.Equal(other.t)
	default:
		return true
	}
}

// String renders v as plain text: empty for a no-value, ISO-8601 for datetimes.
func (v Value) String() string {
	switch v.typ {
	case format.TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case format.TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case format.TypeString:
		return v.s
	case format.TypeBoolean:
		return strconv.FormatBool(v.i != 0)
	case format.TypeDateTime:
		return isodate.Format(v.t)
	default:
		return ""
	}
}

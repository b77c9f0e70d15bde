package value

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/isodate"
)

// ToFloat64 converts v to a float64.
//
// Conversion rules:
//   - no-value: NaN
//   - float, integer: the number
//   - datetime: milliseconds since the Unix epoch
//   - boolean: 0 or 1
//   - string: parsed as a number, NaN if that fails
func ToFloat64(v Value) float64 {
	switch v.typ {
	case format.TypeFloat:
		return v.f
	case format.TypeInteger:
		return float64(v.i)
	case format.TypeDateTime:
		return float64(v.t.UnixMilli())
	case format.TypeBoolean:
		return float64(v.i)
	case format.TypeString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return math.NaN()
		}

		return f
	default:
		return math.NaN()
	}
}

// FromFloat64 converts f to a value of the target type. NaN maps to a
// no-value for every type.
func FromFloat64(f float64, target format.ValueType) Value {
	if math.IsNaN(f) {
		return Null()
	}

	switch target {
	case format.TypeFloat:
		return Float(f)
	case format.TypeInteger:
		return Int(int64(math.Round(f)))
	case format.TypeString:
		return String(strconv.FormatFloat(f, 'g', -1, 64))
	case format.TypeBoolean:
		return Bool(f != 0)
	case format.TypeDateTime:
		return DateTime(time.UnixMilli(int64(math.Round(f))))
	default:
		return Null()
	}
}

// As coerces v to the target type.
//
// Values already of the target type are returned unchanged, except that an
// empty string is a no-value. Strings coerced to datetime are parsed as
// ISO-8601; text that does not parse yields a no-value. Every other
// conversion goes through ToFloat64 and FromFloat64.
func As(v Value, target format.ValueType) Value {
	if v.IsNull() {
		return v
	}

	if v.typ == target {
		if target == format.TypeString && v.s == "" {
			return Null()
		}

		return v
	}

	switch {
	case target == format.TypeString:
		return String(v.String())

	case target == format.TypeDateTime && v.typ == format.TypeString:
		t, err := isodate.Parse(v.s)
		if err != nil {
			return Null()
		}

		return DateTime(t)

	case target == format.TypeBoolean && v.typ == format.TypeString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return FromFloat64(ToFloat64(v), target)
		}

		return Bool(b)
	}

	return FromFloat64(ToFloat64(v), target)
}

// ParseNumber converts JSON number text to an integer value when the text is
// integral and fits in an int64, otherwise to a float value.
func ParseNumber(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i), nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Null(), err
	}

	return Float(f), nil
}

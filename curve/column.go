package curve

import (
	"math"
	"slices"
	"time"

	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/value"
)

// column is one dimension of a curve: a contiguous slice of native values with
// a per-type sentinel standing for the no-value.
type column interface {
	len() int
	append(v value.Value)
	value(i int) value.Value
	float(i int) float64
	clear()
	trim()
	clone(withValues bool) column
}

// columnCodec maps between a native element type and tagged values.
type columnCodec[T any] struct {
	none    T
	isNone  func(T) bool
	encode  func(value.Value) T // input is already coerced to the column type
	decode  func(T) value.Value
	toFloat func(T) float64
}

type typedColumn[T any] struct {
	data  []T
	codec *columnCodec[T]
}

func (c *typedColumn[T]) len() int { return len(c.data) }

func (c *typedColumn[T]) append(v value.Value) {
	if v.IsNull() {
		c.data = append(c.data, c.codec.none)
		return
	}
	c.data = append(c.data, c.codec.encode(v))
}

func (c *typedColumn[T]) value(i int) value.Value {
	e := c.data[i]
	if c.codec.isNone(e) {
		return value.Null()
	}

	return c.codec.decode(e)
}

func (c *typedColumn[T]) float(i int) float64 {
	e := c.data[i]
	if c.codec.isNone(e) {
		return math.NaN()
	}

	return c.codec.toFloat(e)
}

func (c *typedColumn[T]) clear() { c.data = c.data[:0] }

func (c *typedColumn[T]) trim() { c.data = slices.Clip(c.data) }

func (c *typedColumn[T]) clone(withValues bool) column {
	out := &typedColumn[T]{codec: c.codec}
	if withValues {
		out.data = slices.Clone(c.data)
	}

	return out
}

const (
	noInteger  = math.MaxInt64
	noDateTime = math.MinInt64
	noBoolean  = 2
)

var (
	floatCodec = &columnCodec[float64]{
		none:   math.NaN(),
		isNone: math.IsNaN,
		encode: func(v value.Value) float64 {
			f, _ := v.AsFloat()
			return f
		},
		decode:  value.Float,
		toFloat: func(f float64) float64 { return f },
	}

	integerCodec = &columnCodec[int64]{
		none:   noInteger,
		isNone: func(i int64) bool { return i == noInteger },
		encode: func(v value.Value) int64 {
			i, _ := v.AsInt()
			return i
		},
		decode:  value.Int,
		toFloat: func(i int64) float64 { return float64(i) },
	}

	stringCodec = &columnCodec[string]{
		none:   "",
		isNone: func(s string) bool { return s == "" },
		encode: func(v value.Value) string {
			s, _ := v.AsString()
			return s
		},
		decode:  value.String,
		toFloat: func(s string) float64 { return value.ToFloat64(value.String(s)) },
	}

	booleanCodec = &columnCodec[uint8]{
		none:   noBoolean,
		isNone: func(b uint8) bool { return b > 1 },
		encode: func(v value.Value) uint8 {
			if b, _ := v.AsBool(); b {
				return 1
			}
			return 0
		},
		decode:  func(b uint8) value.Value { return value.Bool(b == 1) },
		toFloat: func(b uint8) float64 { return float64(b) },
	}

	// datetimes are held as Unix milliseconds
	dateTimeCodec = &columnCodec[int64]{
		none:   noDateTime,
		isNone: func(ms int64) bool { return ms == noDateTime },
		encode: func(v value.Value) int64 {
			t, _ := v.AsTime()
			return t.UnixMilli()
		},
		decode:  func(ms int64) value.Value { return value.DateTime(time.UnixMilli(ms)) },
		toFloat: func(ms int64) float64 { return float64(ms) },
	}
)

func newColumn(t format.ValueType) column {
	switch t {
	case format.TypeFloat:
		return &typedColumn[float64]{codec: floatCodec}
	case format.TypeInteger:
		return &typedColumn[int64]{codec: integerCodec}
	case format.TypeString:
		return &typedColumn[string]{codec: stringCodec}
	case format.TypeBoolean:
		return &typedColumn[uint8]{codec: booleanCodec}
	case format.TypeDateTime:
		return &typedColumn[int64]{codec: dateTimeCodec}
	default:
		panic("curve: unhandled value type " + t.String())
	}
}

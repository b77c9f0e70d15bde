package encoding

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/endian"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/isodate"
	"github.com/arloliu/jwlf/value"
)

const (
	intNoValue  = math.MaxInt64
	boolNoValue = 0xff
	padding     = ' '
)

var order = endian.Records()

// Field is one fixed-width slot of a record.
type Field struct {
	Type format.ValueType
	Size int
}

// FieldOf returns the field of a single dimension of c.
func FieldOf(c *curve.Curve) Field {
	return Field{Type: c.ValueType(), Size: c.MaxSize()}
}

// Layout returns the record layout of curves: one field per dimension, in
// curve order.
func Layout(curves []*curve.Curve) []Field {
	fields := make([]Field, 0, len(curves))
	for _, c := range curves {
		f := FieldOf(c)
		for range c.Dimensions() {
			fields = append(fields, f)
		}
	}

	return fields
}

// RecordSize returns the total width in bytes of a record with the given layout.
func RecordSize(fields []Field) int {
	n := 0
	for _, f := range fields {
		n += f.Size
	}

	return n
}

// AppendValue appends the encoding of v to dst. The value is coerced to the
// field type first; strings longer than the field are cut at the last whole
// UTF-8 sequence that fits.
func AppendValue(dst []byte, v value.Value, f Field) []byte {
	v = value.As(v, f.Type)

	switch f.Type {
	case format.TypeFloat:
		x, ok := v.AsFloat()
		if !ok {
			x = math.NaN()
		}

		return order.AppendUint64(dst, math.Float64bits(x))

	case format.TypeInteger:
		x, ok := v.AsInt()
		if !ok {
			x = intNoValue
		}

		return order.AppendUint64(dst, uint64(x))

	case format.TypeBoolean:
		b, ok := v.AsBool()
		switch {
		case !ok:
			return append(dst, boolNoValue)
		case b:
			return append(dst, 1)
		default:
			return append(dst, 0)
		}

	case format.TypeString:
		s, _ := v.AsString()
		return appendPadded(dst, truncate(s, f.Size), f.Size)

	case format.TypeDateTime:
		var s string
		if t, ok := v.AsTime(); ok {
			s = isodate.Format(t)
		}

		return appendPadded(dst, truncate(s, f.Size), f.Size)
	}

	return dst
}

// DecodeValue decodes one field from the start of src, which must hold at
// least f.Size bytes. A datetime field that is not blank and does not parse
// yields a no-value and an error wrapping errs.ErrInvalidDate.
func DecodeValue(src []byte, f Field) (value.Value, error) {
	if len(src) < f.Size {
		return value.Null(), fmt.Errorf("%w: %s field needs %d bytes, have %d",
			errs.ErrTruncatedRecord, f.Type, f.Size, len(src))
	}
	src = src[:f.Size]

	switch f.Type {
	case format.TypeFloat:
		return value.Float(math.Float64frombits(order.Uint64(src))), nil

	case format.TypeInteger:
		x := int64(order.Uint64(src))
		if x == intNoValue {
			return value.Null(), nil
		}

		return value.Int(x), nil

	case format.TypeBoolean:
		switch src[0] {
		case 0:
			return value.Bool(false), nil
		case 1:
			return value.Bool(true), nil
		default:
			return value.Null(), nil
		}

	case format.TypeString:
		s := string(bytes.TrimRight(src, " \x00"))
		if s == "" {
			return value.Null(), nil
		}

		return value.String(s), nil

	case format.TypeDateTime:
		s := string(bytes.TrimSpace(bytes.TrimRight(src, "\x00")))
		if s == "" {
			return value.Null(), nil
		}
		t, err := isodate.Parse(s)
		if err != nil {
			return value.Null(), err
		}

		return value.DateTime(t), nil
	}

	return value.Null(), fmt.Errorf("%w: %d", errs.ErrInvalidValueType, f.Type)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}

func appendPadded(dst []byte, s string, size int) []byte {
	dst = append(dst, s...)
	for range size - len(s) {
		dst = append(dst, padding)
	}

	return dst
}

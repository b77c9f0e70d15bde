package writer

import (
	"math"
	"strconv"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/internal/numfmt"
	"github.com/arloliu/jwlf/isodate"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

// column renders the values of one curve.
type column struct {
	curve *curve.Curve
	// formatter is set for float curves only.
	formatter *numfmt.Formatter
	// width is the widest rendered value, used to right-align in pretty output.
	width int
}

// newColumns prepares the columns of l's data. Widths are only measured when
// the output is pretty.
func newColumns(l *welllog.Log, pretty bool) []column {
	curves := l.Curves()
	cols := make([]column, len(curves))
	var scratch []byte
	for i, c := range curves {
		col := column{curve: c, formatter: newFormatter(c, i == 0)}
		if pretty {
			for dim := range c.Dimensions() {
				for row := range c.DimensionLen(dim) {
					scratch = col.appendText(scratch[:0], c.Value(dim, row))
					col.width = max(col.width, len(scratch))
				}
			}
		}
		cols[i] = col
	}

	return cols
}

// newFormatter creates the number formatter of a float curve. The index curve
// keeps as many digits as its step needs, so a regular index stays regular
// after the text round trip.
func newFormatter(c *curve.Curve, isIndex bool) *numfmt.Formatter {
	if c.ValueType() != format.TypeFloat {
		return nil
	}

	values := func(yield func(float64) bool) {
		for dim := range c.Dimensions() {
			for row := range c.DimensionLen(dim) {
				if !yield(c.Float64(dim, row)) {
					return
				}
			}
		}
	}

	return numfmt.New(values, significantDigits(c, isIndex))
}

func significantDigits(c *curve.Curve, isIndex bool) int {
	if !isIndex || c.Len() == 0 {
		return numfmt.MaxSignificant
	}

	lo, hi := c.Range()
	if lo.IsNull() || hi.IsNull() {
		return numfmt.MaxSignificant
	}
	step, ok := welllog.ComputeStep(c.Floats(0))
	if !ok || step == 0 {
		return numfmt.MaxSignificant
	}
	magnitude := math.Max(math.Abs(value.ToFloat64(lo)), math.Abs(value.ToFloat64(hi)))

	return numfmt.Significant(magnitude, step)
}

// appendText appends the JSON rendering of v, without padding.
func (col *column) appendText(dst []byte, v value.Value) []byte {
	if v.IsNull() {
		return append(dst, "null"...)
	}

	switch col.curve.ValueType() {
	case format.TypeFloat:
		f := value.ToFloat64(v)
		if math.IsInf(f, 0) {
			return append(dst, "null"...)
		}

		return col.formatter.Append(dst, f)
	case format.TypeInteger:
		i, _ := v.AsInt()
		return strconv.AppendInt(dst, i, 10)
	case format.TypeBoolean:
		b, _ := v.AsBool()
		return strconv.AppendBool(dst, b)
	case format.TypeDateTime:
		t, _ := v.AsTime()
		dst = append(dst, '"')
		dst = append(dst, isodate.Format(t)...)

		return append(dst, '"')
	default:
		return append(dst, quote(v.String())...)
	}
}

// appendValue appends v right-aligned to the column width.
func (col *column) appendValue(dst []byte, v value.Value, pretty bool) []byte {
	start := len(dst)
	dst = col.appendText(dst, v)
	if !pretty {
		return dst
	}

	pad := col.width - (len(dst) - start)
	if pad <= 0 {
		return dst
	}
	dst = append(dst, make([]byte, pad)...)
	copy(dst[start+pad:], dst[start:len(dst)-pad])
	for i := start; i < start+pad; i++ {
		dst[i] = ' '
	}

	return dst
}

// appendRow appends row i of the columns as one JSON array. Curves with more
// than one dimension render as a nested array.
func appendRow(dst []byte, cols []column, row int, pretty bool) []byte {
	dst = append(dst, '[')
	for i := range cols {
		col := &cols[i]
		if i > 0 {
			dst = appendSeparator(dst, pretty)
		}

		dims := col.curve.Dimensions()
		if dims > 1 {
			dst = append(dst, '[')
		}
		for dim := range dims {
			if dim > 0 {
				dst = appendSeparator(dst, pretty)
			}
			v := value.Null()
			if row < col.curve.DimensionLen(dim) {
				v = col.curve.Value(dim, row)
			}
			dst = col.appendValue(dst, v, pretty)
		}
		if dims > 1 {
			dst = append(dst, ']')
		}
	}

	return append(dst, ']')
}

func appendSeparator(dst []byte, pretty bool) []byte {
	if pretty {
		return append(dst, ',', ' ')
	}

	return append(dst, ',')
}

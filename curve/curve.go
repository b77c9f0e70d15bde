// Package curve implements the columnar storage of a single well log curve.
//
// A Curve holds its definition (name, description, quantity, unit, value type
// and dimension count) and one growable value sequence per dimension. Values
// are stored in native slices; the no-value is a per-type sentinel so numeric
// curves need no per-element tag:
//
//	float     NaN
//	integer   math.MaxInt64
//	string    ""
//	boolean   any byte other than 0 or 1
//	datetime  math.MinInt64 Unix milliseconds
//
// Curves are not safe for concurrent mutation.
package curve

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/internal/hash"
	"github.com/arloliu/jwlf/internal/options"
	"github.com/arloliu/jwlf/value"
)

// Curve is a named, typed, possibly multi-dimensional sequence of values.
type Curve struct {
	name        string
	description string
	quantity    string
	unit        string
	valueType   format.ValueType
	maxSize     int
	columns     []column
}

// Option configures a Curve at creation.
type Option = options.Option[*Curve]

// WithDescription sets the curve description.
func WithDescription(description string) Option {
	return options.NoError(func(c *Curve) { c.description = description })
}

// WithQuantity sets the curve quantity, e.g. "length".
func WithQuantity(quantity string) Option {
	return options.NoError(func(c *Curve) { c.quantity = quantity })
}

// WithUnit sets the curve unit of measure, e.g. "m".
func WithUnit(unit string) Option {
	return options.NoError(func(c *Curve) { c.unit = unit })
}

// WithDimensions sets the number of values per row. The default is 1.
func WithDimensions(n int) Option {
	return options.New(func(c *Curve) error {
		if n < 1 {
			return fmt.Errorf("%w: %d dimensions for curve %q", errs.ErrInvalidDimension, n, c.name)
		}
		c.columns = make([]column, n)

		return nil
	})
}

// WithMaxSize sets the binary field width of a string curve in bytes.
// It is ignored for the fixed-width value types.
func WithMaxSize(n int) Option {
	return options.New(func(c *Curve) error {
		if n < 0 {
			return fmt.Errorf("%w: negative maxSize %d for curve %q", errs.ErrInvalidCurve, n, c.name)
		}
		if c.valueType == format.TypeString {
			c.maxSize = n
		}

		return nil
	})
}

// New creates an empty curve.
//
// Parameters:
//   - name: Curve name; names are not required to be unique within a log
//   - valueType: One of the five value types
//   - opts: Optional description, quantity, unit, dimension count and string width
//
// Returns:
//   - *Curve: The new curve
//   - error: ErrInvalidCurve for an unknown value type, ErrInvalidDimension for a dimension count below 1
func New(name string, valueType format.ValueType, opts ...Option) (*Curve, error) {
	if !valueType.Valid() {
		return nil, fmt.Errorf("%w: curve %q has unknown value type %d", errs.ErrInvalidCurve, name, valueType)
	}

	c := &Curve{
		name:      name,
		valueType: valueType,
		columns:   make([]column, 1),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	for i := range c.columns {
		c.columns[i] = newColumn(valueType)
	}

	return c, nil
}

// Name returns the curve name.
func (c *Curve) Name() string { return c.name }

// Description returns the curve description, or "" if none.
func (c *Curve) Description() string { return c.description }

// Quantity returns the curve quantity, or "" if none.
func (c *Curve) Quantity() string { return c.quantity }

// Unit returns the curve unit, or "" if none.
func (c *Curve) Unit() string { return c.unit }

// ValueType returns the curve value type.
func (c *Curve) ValueType() format.ValueType { return c.valueType }

// Dimensions returns the number of values per row.
func (c *Curve) Dimensions() int { return len(c.columns) }

// MaxSize returns the binary field width of one value in bytes.
// For string curves this is the declared width, raised to the UTF-8 length of
// the longest value appended.
func (c *Curve) MaxSize() int {
	if c.valueType == format.TypeString {
		return c.maxSize
	}

	return c.valueType.FixedSize()
}

// Append coerces v to the curve value type and appends it to the given dimension.
func (c *Curve) Append(dim int, v value.Value) error {
	if dim < 0 || dim >= len(c.columns) {
		return fmt.Errorf("%w: dimension %d of curve %q with %d dimensions",
			errs.ErrInvalidDimension, dim, c.name, len(c.columns))
	}

	v = value.As(v, c.valueType)
	if c.valueType == format.TypeString {
		if s, ok := v.AsString(); ok && len(s) > c.maxSize {
			c.maxSize = len(s)
		}
	}
	c.columns[dim].append(v)

	return nil
}

// AddValue appends v to the first dimension.
func (c *Curve) AddValue(v value.Value) error {
	return c.Append(0, v)
}

// AddFloat appends f to the first dimension; NaN appends a no-value.
func (c *Curve) AddFloat(f float64) error {
	return c.Append(0, value.Float(f))
}

// Len returns the number of rows held, taken from the first dimension.
func (c *Curve) Len() int { return c.columns[0].len() }

// DimensionLen returns the number of values held by one dimension, or -1 for
// an invalid dimension.
func (c *Curve) DimensionLen(dim int) int {
	if dim < 0 || dim >= len(c.columns) {
		return -1
	}

	return c.columns[dim].len()
}

// Value returns the value at row i of dimension dim.
// It panics if either index is out of range.
func (c *Curve) Value(dim, i int) value.Value { return c.columns[dim].value(i) }

// Float64 returns the value at row i of dimension dim converted with value.ToFloat64.
// It panics if either index is out of range.
func (c *Curve) Float64(dim, i int) float64 { return c.columns[dim].float(i) }

// Values returns a copy of the values of one dimension.
func (c *Curve) Values(dim int) []value.Value {
	col := c.columns[dim]
	out := make([]value.Value, col.len())
	for i := range out {
		out[i] = col.value(i)
	}

	return out
}

// Floats returns the values of one dimension as float64, with NaN for no-values.
func (c *Curve) Floats(dim int) []float64 {
	col := c.columns[dim]
	out := make([]float64, col.len())
	for i := range out {
		out[i] = col.float(i)
	}

	return out
}

// Range returns the smallest and largest value across all dimensions, as
// values of the curve type. Both are no-values when the curve holds no
// numeric data.
func (c *Curve) Range() (value.Value, value.Value) {
	lo, hi := math.NaN(), math.NaN()
	for _, col := range c.columns {
		for i := 0; i < col.len(); i++ {
			f := col.float(i)
			if math.IsNaN(f) {
				continue
			}
			if math.IsNaN(lo) || f < lo {
				lo = f
			}
			if math.IsNaN(hi) || f > hi {
				hi = f
			}
		}
	}

	return value.FromFloat64(lo, c.valueType), value.FromFloat64(hi, c.valueType)
}

// Clear removes all values while keeping the definition.
//
// The string width is kept so that a binary layout computed before Clear
// stays valid for rows appended afterwards.
func (c *Curve) Clear() {
	for _, col := range c.columns {
		col.clear()
	}
}

// Trim releases spare capacity once population is complete.
func (c *Curve) Trim() {
	for _, col := range c.columns {
		col.trim()
	}
}

// Clone returns a copy of the curve definition, with or without its values.
func (c *Curve) Clone(withValues bool) *Curve {
	out := *c
	out.columns = make([]column, len(c.columns))
	for i, col := range c.columns {
		out.columns[i] = col.clone(withValues)
	}

	return &out
}

// Signature returns an xxHash64 of the curve definition.
// Two curves with equal signatures share name, description, quantity, unit,
// value type and dimension count.
func (c *Curve) Signature() uint64 {
	return hash.NewBuilder().
		String(c.name).
		String(c.description).
		String(c.quantity).
		String(c.unit).
		String(c.valueType.String()).
		Int(len(c.columns)).
		Sum()
}

func (c *Curve) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s", c.name, c.valueType)
	if c.unit != "" {
		fmt.Fprintf(&sb, ", %s", c.unit)
	}
	if len(c.columns) > 1 {
		fmt.Fprintf(&sb, ", %d dimensions", len(c.columns))
	}
	fmt.Fprintf(&sb, "] %d values", c.Len())

	return sb.String()
}

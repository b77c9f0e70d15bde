// Package numfmt renders floating point curve values with a precision
// inferred from the values themselves.
package numfmt

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultSignificant is the number of significant digits used when the
	// caller has no better estimate.
	DefaultSignificant = 7

	// MaxSignificant is the most significant digits a double reliably carries
	// through a text round trip in this format.
	MaxSignificant = 10

	defaultDecimals = 2
	minPlain        = 0.0001
	maxPlain        = 9999999.0
)

// Formatter formats numbers with a fixed number of decimals, in plain or
// scientific notation.
type Formatter struct {
	scientific bool
	decimals   int
}

// New creates a formatter suited to values using at most significant digits.
//
// Scientific notation is chosen when any finite |v| exceeds 9999999 or lies in
// (0, 0.0001). Otherwise the decimal count is what remains of the significant
// digits after the integer part of the largest value, reduced to what the
// values actually need. NaN and infinities are ignored.
func New(values iter.Seq[float64], significant int) *Formatter {
	f := &Formatter{decimals: defaultDecimals}

	maxValue := 0.0
	maxNeeded := 0
	seen := false
	if values != nil {
		for v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			seen = true
			v = math.Abs(v)
			if v > maxPlain || v != 0 && v < minPlain {
				f.scientific = true
				f.decimals = max(significant-1, 0)

				return f
			}
			maxValue = max(maxValue, v)
			maxNeeded = max(maxNeeded, CountDecimals(v))
		}
	}

	whole := strconv.FormatInt(int64(math.Round(maxValue)), 10)
	f.decimals = max(significant-len(whole), 0)
	if seen && maxNeeded < f.decimals {
		f.decimals = maxNeeded
	}

	return f
}

// Default returns a formatter with the default precision for no particular
// values.
func Default() *Formatter {
	return New(nil, DefaultSignificant)
}

// Scientific reports whether the formatter uses scientific notation.
func (f *Formatter) Scientific() bool { return f.scientific }

// Decimals returns the number of digits after the decimal point.
func (f *Formatter) Decimals() int { return f.decimals }

// Format renders v. NaN and infinities render as the empty string, and zero
// as "0" or "0.0" so that it is never lost among trailing zeros.
func (f *Formatter) Format(v float64) string {
	return string(f.Append(nil, v))
}

// Append appends the rendering of v to dst.
func (f *Formatter) Append(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return dst
	case v == 0:
		if f.decimals == 0 {
			return append(dst, '0')
		}

		return append(dst, "0.0"...)
	case f.scientific:
		return appendScientific(dst, v, f.decimals)
	default:
		return strconv.AppendFloat(dst, v, 'f', f.decimals, 64)
	}
}

// appendScientific writes mantissa and exponent as 1.234E5 or 1.234E-5.
func appendScientific(dst []byte, v float64, decimals int) []byte {
	s := strconv.FormatFloat(v, 'E', decimals, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	dst = append(dst, mantissa...)
	dst = append(dst, 'E')
	if exp[0] == '-' {
		dst = append(dst, '-')
	}
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}

	return append(dst, exp...)
}

// CountDecimals returns the number of decimals needed to represent d, capped
// so that whole and fractional digits together stay within 12.
func CountDecimals(d float64) int {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}

	d = math.Abs(d)
	whole := math.Round(d)
	nSignificant := countDigits(whole)
	fraction := math.Abs(d - whole)

	decimals := 0
	order := 1.0
	for {
		scaled := fraction * order
		rounded := math.Round(scaled)
		diff := math.Abs(rounded - scaled)
		rel := diff
		if rounded != 0 {
			rel = diff / rounded
		}
		if rel < 0.0001 || nSignificant >= 12 {
			return decimals
		}
		order *= 10
		decimals++
		nSignificant++
	}
}

func countDigits(v float64) int {
	if v == 0 {
		return 1
	}

	return int(math.Log10(math.Abs(v))) + 1
}

// Significant returns the significant digits needed to print values of the
// given magnitude without losing the regularity of step: the digits of the
// magnitude plus the decimals of the step (at least one), capped at
// MaxSignificant.
func Significant(magnitude, step float64) int {
	digits := 1
	if magnitude != 0 && !math.IsNaN(magnitude) && !math.IsInf(magnitude, 0) {
		digits = int(math.Round(math.Abs(math.Log10(math.Abs(magnitude))) + 0.5))
	}
	decimals := max(1, CountDecimals(step))

	return min(digits+decimals, MaxSignificant)
}

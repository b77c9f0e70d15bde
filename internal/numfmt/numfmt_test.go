package numfmt

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Plain(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		sig      int
		decimals int
		in       float64
		expected string
	}{
		{"integral values", []float64{0, 10, 20, 30}, DefaultSignificant, 0, 10, "10"},
		{"needed decimals", []float64{1.5, 2.25}, DefaultSignificant, 2, 1.5, "1.50"},
		{"limited by significant digits", []float64{12345.678912}, DefaultSignificant, 2, 12345.678912, "12345.68"},
		{"nan ignored", []float64{math.NaN(), 0.5}, DefaultSignificant, 1, -0.5, "-0.5"},
		{"no values", nil, DefaultSignificant, 6, 1.25, "1.250000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(slices.Values(tt.values), tt.sig)
			require.False(t, f.Scientific())
			require.Equal(t, tt.decimals, f.Decimals())
			require.Equal(t, tt.expected, f.Format(tt.in))
		})
	}
}

func TestNew_Scientific(t *testing.T) {
	f := New(slices.Values([]float64{1, 1e8}), DefaultSignificant)
	require.True(t, f.Scientific())
	require.Equal(t, 6, f.Decimals())
	assert.Equal(t, "1.234568E8", f.Format(123456789))
	assert.Equal(t, "-1.234000E-5", f.Format(-0.00001234))
	assert.Equal(t, "1.000000E0", f.Format(1))

	small := New(slices.Values([]float64{0.00002}), 3)
	require.True(t, small.Scientific())
	assert.Equal(t, "2.00E-5", small.Format(0.00002))
}

func TestFormat_Special(t *testing.T) {
	f := New(slices.Values([]float64{1.5}), DefaultSignificant)
	assert.Equal(t, "", f.Format(math.NaN()))
	assert.Equal(t, "", f.Format(math.Inf(1)))
	assert.Equal(t, "0.0", f.Format(0))

	integral := New(slices.Values([]float64{2}), DefaultSignificant)
	assert.Equal(t, "0", integral.Format(0))

	assert.Equal(t, "x1.5", string(f.Append([]byte("x"), 1.5)))
}

func TestCountDecimals(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{0, 0},
		{30, 0},
		{1.5, 1},
		{2.25, 2},
		{0.1524, 4},
		{-0.001, 3},
		{1234567890.123456, 2},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CountDecimals(tt.in), "%v", tt.in)
	}
}

func TestSignificant(t *testing.T) {
	assert.Equal(t, 5, Significant(1000, 0.5))
	assert.Equal(t, 8, Significant(3000, 0.1524))
	assert.Equal(t, 2, Significant(0, 1))
	assert.Equal(t, MaxSignificant, Significant(1e9, 0.00001))
}

func TestDefault(t *testing.T) {
	f := Default()
	require.False(t, f.Scientific())
	assert.Equal(t, "3.141593", f.Format(math.Pi))
}

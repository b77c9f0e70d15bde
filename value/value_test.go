package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jwlf/format"
)

func TestValue_Constructors(t *testing.T) {
	require.True(t, Null().IsNull())
	require.True(t, Value{}.IsNull())
	require.True(t, Float(math.NaN()).IsNull())
	require.True(t, DateTime(time.Time{}).IsNull())

	f, ok := Float(1.5).AsFloat()
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	i, ok := Int(-7).AsInt()
	require.True(t, ok)
	require.Equal(t, int64(-7), i)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	require.True(t, b)

	s, ok := String("abc").AsString()
	require.True(t, ok)
	require.Equal(t, "abc", s)

	_, ok = Int(1).AsFloat()
	require.False(t, ok)

	typ, ok := Int(1).Type()
	require.True(t, ok)
	require.Equal(t, format.TypeInteger, typ)

	_, ok = Null().Type()
	require.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, Null().Equal(Null()))
	assert.True(t, Float(1).Equal(Float(1)))
	assert.False(t, Float(1).Equal(Int(1)))
	assert.True(t, DateTime(ts).Equal(DateTime(ts.In(time.FixedZone("x", 3600)))))
	assert.False(t, Bool(true).Equal(Bool(false)))
	assert.False(t, String("a").Equal(Null()))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "2.5", Float(2.5).String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "2018-10-10T12:20:00Z", DateTime(time.Date(2018, 10, 10, 12, 20, 0, 0, time.UTC)).String())
}

func TestToFloat64(t *testing.T) {
	ts := time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)

	tests := []struct {
		name     string
		value    Value
		expected float64
	}{
		{"float", Float(2.5), 2.5},
		{"integer", Int(3), 3},
		{"datetime is epoch millis", DateTime(ts), 1000},
		{"true", Bool(true), 1},
		{"false", Bool(false), 0},
		{"numeric string", String(" 12.5 "), 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ToFloat64(tt.value))
		})
	}

	require.True(t, math.IsNaN(ToFloat64(Null())))
	require.True(t, math.IsNaN(ToFloat64(String("abc"))))
}

func TestFromFloat64(t *testing.T) {
	for _, vt := range format.ValueTypes {
		require.True(t, FromFloat64(math.NaN(), vt).IsNull(), vt.String())
	}

	require.Equal(t, Float(1.25), FromFloat64(1.25, format.TypeFloat))
	require.Equal(t, Int(2), FromFloat64(1.5, format.TypeInteger))
	require.Equal(t, Int(-2), FromFloat64(-1.6, format.TypeInteger))
	require.Equal(t, Bool(true), FromFloat64(3, format.TypeBoolean))
	require.Equal(t, Bool(false), FromFloat64(0, format.TypeBoolean))
	require.Equal(t, String("1.5"), FromFloat64(1.5, format.TypeString))

	dt, ok := FromFloat64(86400000, format.TypeDateTime).AsTime()
	require.True(t, ok)
	require.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), dt)
}

func TestAs(t *testing.T) {
	t.Run("no-value stays no-value", func(t *testing.T) {
		for _, vt := range format.ValueTypes {
			require.True(t, As(Null(), vt).IsNull())
		}
	})

	t.Run("empty string is no-value", func(t *testing.T) {
		require.True(t, As(String(""), format.TypeString).IsNull())
	})

	t.Run("same type unchanged", func(t *testing.T) {
		require.Equal(t, Float(2), As(Float(2), format.TypeFloat))
		require.Equal(t, String("x"), As(String("x"), format.TypeString))
	})

	t.Run("string to datetime parses ISO-8601", func(t *testing.T) {
		dt, ok := As(String("2018-W47-6"), format.TypeDateTime).AsTime()
		require.True(t, ok)
		require.Equal(t, time.Date(2018, 11, 24, 0, 0, 0, 0, time.UTC), dt)

		require.True(t, As(String("not a date"), format.TypeDateTime).IsNull())
	})

	t.Run("string to boolean", func(t *testing.T) {
		require.Equal(t, Bool(true), As(String("true"), format.TypeBoolean))
		require.Equal(t, Bool(true), As(String("1"), format.TypeBoolean))
		require.True(t, As(String("maybe"), format.TypeBoolean).IsNull())
	})

	t.Run("numbers", func(t *testing.T) {
		require.Equal(t, Int(3), As(Float(2.7), format.TypeInteger))
		require.Equal(t, Float(3), As(Int(3), format.TypeFloat))
		require.Equal(t, Float(1), As(Bool(true), format.TypeFloat))
		require.Equal(t, String("3"), As(Int(3), format.TypeString))
		require.True(t, As(String("abc"), format.TypeFloat).IsNull())
	})
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("42")
	require.NoError(t, err)
	require.Equal(t, Int(42), v)

	v, err = ParseNumber("-1.5e2")
	require.NoError(t, err)
	require.Equal(t, Float(-150), v)

	v, err = ParseNumber("1.0")
	require.NoError(t, err)
	require.Equal(t, Float(1), v)

	v, err = ParseNumber("99999999999999999999")
	require.NoError(t, err)
	f, ok := v.AsFloat()
	require.True(t, ok)
	require.InDelta(t, 1e20, f, 1e6)

	_, err = ParseNumber("x")
	require.Error(t, err)
}

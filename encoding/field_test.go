package encoding

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/value"
)

func TestAppendValue_Layout(t *testing.T) {
	tests := []struct {
		name     string
		v        value.Value
		field    Field
		expected []byte
	}{
		{"float", value.Float(1), Field{format.TypeFloat, 8}, []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}},
		{"integer", value.Int(258), Field{format.TypeInteger, 8}, []byte{0, 0, 0, 0, 0, 0, 1, 2}},
		{"integer no-value", value.Null(), Field{format.TypeInteger, 8}, []byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"true", value.Bool(true), Field{format.TypeBoolean, 1}, []byte{1}},
		{"false", value.Bool(false), Field{format.TypeBoolean, 1}, []byte{0}},
		{"boolean no-value", value.Null(), Field{format.TypeBoolean, 1}, []byte{0xff}},
		{"string", value.String("ab"), Field{format.TypeString, 4}, []byte("ab  ")},
		{"string no-value", value.Null(), Field{format.TypeString, 3}, []byte("   ")},
		{"coerced", value.Int(2), Field{format.TypeString, 2}, []byte("2 ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, AppendValue(nil, tt.v, tt.field))
		})
	}
}

func TestAppendValue_FloatNoValue(t *testing.T) {
	b := AppendValue(nil, value.Null(), Field{format.TypeFloat, 8})
	require.Len(t, b, 8)

	v, err := DecodeValue(b, Field{format.TypeFloat, 8})
	require.NoError(t, err)
	require.True(t, v.IsNull())
	require.True(t, math.IsNaN(value.ToFloat64(v)))
}

func TestNoValueIdempotence(t *testing.T) {
	for _, typ := range format.ValueTypes {
		sizes := []int{typ.FixedSize()}
		if typ == format.TypeString {
			sizes = []int{0, 1, 7, format.DefaultStringSize, 255}
		}
		for _, size := range sizes {
			f := Field{Type: typ, Size: size}
			b := AppendValue(nil, value.Null(), f)
			require.Len(t, b, size, "%s/%d", typ, size)

			v, err := DecodeValue(b, f)
			require.NoError(t, err, "%s/%d", typ, size)
			require.True(t, v.IsNull(), "%s/%d", typ, size)
		}
	}
}

func TestDecodeValue_RoundTrip(t *testing.T) {
	ts := time.Date(2019, 5, 17, 8, 30, 15, 250*int(time.Millisecond), time.UTC)

	tests := []struct {
		name  string
		v     value.Value
		field Field
	}{
		{"float", value.Float(-1234.5678), Field{format.TypeFloat, 8}},
		{"integer", value.Int(math.MinInt64), Field{format.TypeInteger, 8}},
		{"boolean", value.Bool(true), Field{format.TypeBoolean, 1}},
		{"string", value.String("Troll A"), Field{format.TypeString, 20}},
		{"datetime", value.DateTime(ts), Field{format.TypeDateTime, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := AppendValue(nil, tt.v, tt.field)
			require.Len(t, b, tt.field.Size)

			got, err := DecodeValue(b, tt.field)
			require.NoError(t, err)
			require.True(t, tt.v.Equal(got), "got %v, want %v", got, tt.v)
		})
	}
}

func TestDecodeValue_OtherBooleanBytes(t *testing.T) {
	for _, b := range []byte{2, 0x7f, 0xfe} {
		v, err := DecodeValue([]byte{b}, Field{format.TypeBoolean, 1})
		require.NoError(t, err)
		require.True(t, v.IsNull())
	}
}

func TestDecodeValue_Errors(t *testing.T) {
	_, err := DecodeValue([]byte{1, 2}, Field{format.TypeFloat, 8})
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)

	b := AppendValue(nil, value.String("not a date"), Field{format.TypeString, 30})
	v, err := DecodeValue(b, Field{format.TypeDateTime, 30})
	require.ErrorIs(t, err, errs.ErrInvalidDate)
	require.True(t, v.IsNull())
}

func TestTruncate_UTF8Boundary(t *testing.T) {
	// "æøå" is three 2-byte sequences.
	tests := []struct {
		size     int
		expected string
	}{
		{6, "æøå"},
		{5, "æø"},
		{4, "æø"},
		{3, "æ"},
		{1, ""},
		{0, ""},
	}

	for _, tt := range tests {
		b := AppendValue(nil, value.String("æøå"), Field{format.TypeString, tt.size})
		require.Len(t, b, tt.size)

		v, err := DecodeValue(b, Field{format.TypeString, tt.size})
		require.NoError(t, err)
		if tt.expected == "" {
			assert.True(t, v.IsNull())
			continue
		}
		s, ok := v.AsString()
		require.True(t, ok)
		assert.Equal(t, tt.expected, s)
	}
}

package welllog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/value"
)

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]byte(`{"name":"X","elevation":12.5,"runNumber":3,"custom":{"a":[1,2]},"flag":true,"none":null}`))
	require.NoError(t, err)

	require.Equal(t, []string{"name", "elevation", "runNumber", "custom", "flag", "none"}, h.Keys())
	require.Equal(t, 6, h.Len())
	require.Equal(t, value.String("X"), h.Value("name"))
	require.Equal(t, value.Float(12.5), h.Value("elevation"))
	require.Equal(t, value.Int(3), h.Value("runNumber"))
	require.Equal(t, value.Bool(true), h.Value("flag"))
	require.True(t, h.Value("custom").IsNull(), "objects are not scalars")
	require.True(t, h.Value("missing").IsNull())
	require.True(t, h.Has("none"))
	require.False(t, h.Has("missing"))
	require.NotNil(t, h.Raw("custom"))
}

func TestParseHeader_Errors(t *testing.T) {
	_, err := ParseHeader([]byte(`{"name":`))
	require.ErrorIs(t, err, errs.ErrParse)

	_, err = ParseHeader([]byte(`[1,2]`))
	require.ErrorIs(t, err, errs.ErrInvalidProperty)

	h, err := ParseHeader([]byte(`null`))
	require.NoError(t, err)
	require.Equal(t, 0, h.Len())
}

func TestHeader_CopyOnWrite(t *testing.T) {
	original, err := ParseHeader([]byte(`{"name":"A","well":"W1"}`))
	require.NoError(t, err)

	updated, err := original.With("name", "B")
	require.NoError(t, err)
	require.Equal(t, value.String("A"), original.Value("name"), "original snapshot is unchanged")
	require.Equal(t, value.String("B"), updated.Value("name"))
	require.Equal(t, []string{"name", "well"}, updated.Keys(), "replaced key keeps its position")

	appended, err := updated.With("field", "F")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "well", "field"}, appended.Keys())
	require.Equal(t, 2, updated.Len())

	removed := appended.Without("well")
	require.Equal(t, []string{"name", "field"}, removed.Keys())
	require.Same(t, removed, removed.Without("nothing"))
}

func TestHeader_WithKinds(t *testing.T) {
	ts := time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"nil", nil, `{"k":null}`},
		{"string", "x", `{"k":"x"}`},
		{"bool", false, `{"k":false}`},
		{"int", 7, `{"k":7}`},
		{"int64", int64(-8), `{"k":-8}`},
		{"float", 2.5, `{"k":2.5}`},
		{"time", ts, `{"k":"2020-02-03T04:05:06Z"}`},
		{"value", value.Int(9), `{"k":9}`},
		{"null value", value.Null(), `{"k":null}`},
		{"map", map[string]string{"b": "2", "a": "1"}, `{"k":{"a":"1","b":"2"}}`},
		{"strings", []string{"p", "q"}, `{"k":["p","q"]}`},
		{"floats", []float64{1.5, 2}, `{"k":[1.5,2]}`},
		{"values", []value.Value{value.String("s"), value.Null()}, `{"k":["s",null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := EmptyHeader().With("k", tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.expected, h.String())
		})
	}

	_, err := EmptyHeader().With("k", struct{}{})
	require.ErrorIs(t, err, errs.ErrInvalidProperty)
}

func TestHeader_Empty(t *testing.T) {
	h := EmptyHeader()
	require.Equal(t, 0, h.Len())
	require.Empty(t, h.Keys())
	require.Equal(t, "{}", h.String())
}

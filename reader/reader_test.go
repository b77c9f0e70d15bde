package reader

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/token"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

const scenario = `[{"header":{"name":"X"},` +
	`"curves":[{"name":"MD","valueType":"float","dimensions":1},{"name":"A","valueType":"float","dimensions":1}],` +
	`"data":[[1.0,2.0],[2.0,null]]}]`

var valueComparer = cmp.Comparer(func(a, b value.Value) bool { return a.Equal(b) })

func readString(t *testing.T, doc string, opts ...Option) []*welllog.Log {
	t.Helper()
	logs, err := NewReader(strings.NewReader(doc), opts...).Read()
	require.NoError(t, err)

	return logs
}

func curveValues(l *welllog.Log) [][][]value.Value {
	var out [][][]value.Value
	for _, c := range l.Curves() {
		var dims [][]value.Value
		for dim := range c.Dimensions() {
			dims = append(dims, c.Values(dim))
		}
		out = append(out, dims)
	}

	return out
}

func TestRead_Scenario(t *testing.T) {
	logs := readString(t, scenario)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, "X", l.Name())
	require.Equal(t, 2, l.NCurves())
	require.Equal(t, 2, l.NValues())

	md := l.IndexCurve()
	assert.Equal(t, "MD", md.Name())
	assert.Equal(t, format.TypeFloat, md.ValueType())
	assert.Equal(t, []float64{1, 2}, md.Floats(0))

	a := l.FindCurve("A")
	require.NotNil(t, a)
	assert.Equal(t, 1, a.Dimensions())
	assert.Equal(t, value.Float(2), a.Value(0, 0))
	assert.True(t, a.Value(0, 1).IsNull())
}

func TestRead_OrderIndependence(t *testing.T) {
	dataFirst := `[{"data":[[1.0,2.0,[5,6]],[2.0,null,[7]]],` +
		`"curves":[{"name":"MD"},{"name":"A"},{"name":"IMG","valueType":"integer","dimensions":2}],` +
		`"header":{"name":"X"}}]`
	curvesFirst := `[{"header":{"name":"X"},` +
		`"curves":[{"name":"MD"},{"name":"A"},{"name":"IMG","valueType":"integer","dimensions":2}],` +
		`"data":[[1.0,2.0,[5,6]],[2.0,null,[7]]]}]`

	a := readString(t, dataFirst)
	b := readString(t, curvesFirst)
	require.Len(t, a, 1)
	require.Len(t, b, 1)

	assert.Equal(t, a[0].Signature(), b[0].Signature())
	if diff := cmp.Diff(curveValues(b[0]), curveValues(a[0]), valueComparer); diff != "" {
		t.Errorf("curve values differ (-curves first +data first):\n%s", diff)
	}
	assert.True(t, a[0].FindCurve("IMG").Value(1, 1).IsNull(), "short multi-dimensional value is padded")
}

func TestRead_AlignmentInvariant(t *testing.T) {
	docs := []string{
		`[{"curves":[{"name":"MD"},{"name":"A"},{"name":"B","dimensions":3}],"data":[[1],[2,3],[3,4,[1,2,3]],[4,5,6,7]]}]`,
		`[{"data":[[1],[2,3],[3,4,[1,2,3]],[4,5,6,7]],"curves":[{"name":"MD"},{"name":"A"},{"name":"B","dimensions":3}]}]`,
	}

	for _, doc := range docs {
		logs := readString(t, doc)
		require.Len(t, logs, 1)
		l := logs[0]
		require.Equal(t, 4, l.NValues())
		for _, c := range l.Curves() {
			for dim := range c.Dimensions() {
				assert.Equal(t, l.NValues(), c.DimensionLen(dim), "%s[%d]", c.Name(), dim)
			}
		}
	}
}

func TestRead_MultiDimensional(t *testing.T) {
	logs := readString(t, `[{"curves":[{"name":"MD"},{"name":"IMG","valueType":"integer","dimensions":2},{"name":"C"}],`+
		`"data":[[1,[10,11],5],[2,[12,13],6]]}]`)
	require.Len(t, logs, 1)

	img := logs[0].FindCurve("IMG")
	require.NotNil(t, img)
	assert.Equal(t, []value.Value{value.Int(10), value.Int(12)}, img.Values(0))
	assert.Equal(t, []value.Value{value.Int(11), value.Int(13)}, img.Values(1))
	assert.Equal(t, []float64{5, 6}, logs[0].FindCurve("C").Floats(0))
}

func TestRead_ValueTypes(t *testing.T) {
	logs := readString(t, `[{"curves":[`+
		`{"name":"TIME","valueType":"datetime"},`+
		`{"name":"N","valueType":"integer"},`+
		`{"name":"S","valueType":"string","maxSize":4},`+
		`{"name":"B","valueType":"boolean"}],`+
		`"data":[["2018-11-24T10:00:00Z",3,"abcdef",true],["2018-11-24T10:00:01Z",null,"x",false]]}]`)
	require.Len(t, logs, 1)
	l := logs[0]

	ts, ok := l.IndexCurve().Value(0, 1).AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2018, 11, 24, 10, 0, 1, 0, time.UTC), ts)

	n := l.FindCurve("N")
	assert.Equal(t, value.Int(3), n.Value(0, 0))
	assert.True(t, n.Value(0, 1).IsNull())

	s := l.FindCurve("S")
	assert.Equal(t, value.String("abcdef"), s.Value(0, 0))
	assert.Equal(t, 6, s.MaxSize(), "string width grows with the longest value")

	assert.Equal(t, []value.Value{value.Bool(true), value.Bool(false)}, l.FindCurve("B").Values(0))
}

func TestRead_CurveDefinitionDefaults(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	read := readString(t, `[{"curves":[`+
		`{"name":"MD","unit":"m","quantity":"length","description":"Measured depth"},`+
		`{"name":"C","valueType":"complex","dimensions":0},`+
		`{"name":"S","valueType":"string"},`+
		`{"valueType":"integer"},`+
		`{"name":"X","custom":{"a":[1,2]},"maxSize":-3}],"data":[]}]`,
		WithLogger(zap.New(core)))
	require.Len(t, read, 1)
	curves := read[0].Curves()
	require.Len(t, curves, 5)

	assert.Equal(t, "m", curves[0].Unit())
	assert.Equal(t, "length", curves[0].Quantity())
	assert.Equal(t, "Measured depth", curves[0].Description())
	assert.Equal(t, format.TypeFloat, curves[0].ValueType())

	assert.Equal(t, format.TypeFloat, curves[1].ValueType())
	assert.Equal(t, 1, curves[1].Dimensions())

	assert.Equal(t, format.DefaultStringSize, curves[2].MaxSize())

	assert.Empty(t, curves[3].Name())
	assert.Equal(t, format.TypeInteger, curves[3].ValueType())

	assert.Equal(t, 1, logs.FilterMessage("unrecognized value type, using float").Len())
	assert.Equal(t, 1, logs.FilterMessage("invalid dimensions, using 1").Len())
	assert.Equal(t, 1, logs.FilterMessage("curve name is missing").Len())
	assert.Equal(t, 1, logs.FilterMessage("invalid maxSize ignored").Len())
}

func TestRead_UnparsableDateTime(t *testing.T) {
	curves := `"curves":[{"name":"T","valueType":"datetime"},{"name":"A"}]`
	data := `"data":[["not a date",2],["2020-01-02T03:04:05Z",3],["",4]]`

	for name, doc := range map[string]string{
		"curves first": `[{` + curves + `,` + data + `}]`,
		"data first":   `[{` + data + `,` + curves + `}]`,
	} {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			read := readString(t, doc, WithLogger(zap.New(core)))
			require.Len(t, read, 1)

			tc := read[0].FindCurve("T")
			require.Equal(t, 3, tc.Len())
			assert.True(t, tc.Value(0, 0).IsNull())
			want := value.DateTime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))
			assert.True(t, want.Equal(tc.Value(0, 1)), tc.Value(0, 1).String())
			assert.True(t, tc.Value(0, 2).IsNull())

			warned := logs.FilterMessage("unparsable datetime value")
			require.Equal(t, 1, warned.Len(), "empty text is a plain no-value")
			assert.Equal(t, "not a date", warned.All()[0].ContextMap()["value"])
		})
	}
}

func TestRead_HeaderPassThrough(t *testing.T) {
	logs := readString(t, `[{"header":{"name":"X","well":"W","custom":{"k":[1,"a"]},"startIndex":1},"curves":[],"data":[]}]`)
	require.Len(t, logs, 1)

	h := logs[0].Header()
	assert.Equal(t, []string{"name", "well", "custom", "startIndex"}, h.Keys())
	assert.Equal(t, "W", logs[0].Well())
	assert.JSONEq(t, `{"k":[1,"a"]}`, string(h.Raw("custom").MarshalTo(nil)))
}

func TestRead_Documents(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		nLogs int
	}{
		{"empty input", "", 0},
		{"empty array", "[]", 0},
		{"bare object", `{"header":{"name":"A"}}`, 1},
		{"not logs", `[1, "x", [2], {"header":{}}]`, 1},
		{"two logs", `[{"header":{"name":"A"}},{"header":{"name":"B"}}]`, 2},
		{"scalar document", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := readString(t, tt.doc)
			require.Len(t, logs, tt.nLogs)
		})
	}
}

func TestRead_ObjectInDataSkipped(t *testing.T) {
	logs := readString(t, `[{"curves":[{"name":"MD"},{"name":"A"}],"data":[[1,{"x":[1]},2]]}]`)
	require.Len(t, logs, 1)
	assert.Equal(t, []float64{1}, logs[0].IndexCurve().Floats(0))
	assert.Equal(t, []float64{2}, logs[0].FindCurve("A").Floats(0))
}

func TestRead_DataWithoutCurves(t *testing.T) {
	logs := readString(t, `[{"data":[[1,2]]}]`)
	require.Len(t, logs, 1)
	assert.Equal(t, 0, logs[0].NCurves())
}

func TestRead_SyntaxError(t *testing.T) {
	logs, err := NewReader(strings.NewReader(`[{"header":{"name":"A"}},{"curves":[`)).Read()
	require.ErrorIs(t, err, errs.ErrParse)

	var se *token.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Len(t, logs, 2, "logs read before the failure are returned")
}

func TestRead_Interrupted(t *testing.T) {
	rows := 0
	logs, err := NewReader(strings.NewReader(scenario), WithDataListener(func(l *welllog.Log) bool {
		rows++
		return rows < 1
	})).Read()

	require.ErrorIs(t, err, errs.ErrInterrupted)
	require.Len(t, logs, 1, "the partial log is kept")
	require.Equal(t, 1, logs[0].NValues())
	require.Equal(t, 1, rows)
}

func TestRead_ListenerClears(t *testing.T) {
	var seen []float64
	logs, err := NewReader(strings.NewReader(scenario), WithDataListener(func(l *welllog.Log) bool {
		seen = append(seen, l.IndexCurve().Floats(0)...)
		l.ClearCurves()
		return true
	})).Read()

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, []float64{1, 2}, seen)
	assert.Equal(t, 0, logs[0].NValues())
}

func TestReader_MetadataThenData(t *testing.T) {
	r := NewReader(strings.NewReader(scenario))

	logs, err := r.ReadMetadata()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, 2, logs[0].NCurves())
	require.Equal(t, 0, logs[0].NValues())

	require.NoError(t, r.ReadData(logs))
	require.Equal(t, 2, logs[0].NValues())
	assert.Equal(t, []float64{1, 2}, logs[0].IndexCurve().Floats(0))
}

func TestReader_ReadDataMismatch(t *testing.T) {
	r := NewReader(strings.NewReader(scenario))
	require.ErrorIs(t, r.ReadData(nil), errs.ErrLogCountMismatch)

	logs, err := r.ReadMetadata()
	require.NoError(t, err)

	extra, err := curve.New("EXTRA", format.TypeFloat)
	require.NoError(t, err)
	require.NoError(t, logs[0].AddCurve(extra))
	require.ErrorIs(t, r.ReadData(logs), errs.ErrInvalidCurve)
	require.Equal(t, 0, logs[0].NValues(), "logs are unchanged on error")
}

func TestReader_StreamConsumed(t *testing.T) {
	r := NewReader(io.MultiReader(strings.NewReader(scenario)))

	_, err := r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.ErrorIs(t, err, errs.ErrSourceConsumed)
}

func TestReader_ReadOne(t *testing.T) {
	l, err := NewReader(strings.NewReader(scenario)).ReadOne()
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "X", l.Name())

	l, err = NewReader(strings.NewReader("[]")).ReadOne()
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o600))

	r := NewFileReader(path)
	for range 2 {
		logs, err := r.Read()
		require.NoError(t, err)
		require.Len(t, logs, 1)
	}

	_, err := NewFileReader(filepath.Join(t.TempDir(), "missing.json")).Read()
	require.ErrorIs(t, err, fs.ErrNotExist)
}

package encoding

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/value"
)

func testCurves(t *testing.T) []*curve.Curve {
	t.Helper()

	md, err := curve.New("MD", format.TypeFloat)
	require.NoError(t, err)
	img, err := curve.New("IMG", format.TypeInteger, curve.WithDimensions(2))
	require.NoError(t, err)
	tag, err := curve.New("TAG", format.TypeString, curve.WithMaxSize(4))
	require.NoError(t, err)

	return []*curve.Curve{md, img, tag}
}

func TestLayout(t *testing.T) {
	fields := Layout(testCurves(t))
	require.Equal(t, []Field{
		{format.TypeFloat, 8},
		{format.TypeInteger, 8},
		{format.TypeInteger, 8},
		{format.TypeString, 4},
	}, fields)
	require.Equal(t, 28, RecordSize(fields))
}

func TestRecord_RoundTrip(t *testing.T) {
	src := testCurves(t)
	rows := [][]value.Value{
		{value.Float(100), value.Int(1), value.Int(2), value.String("ab")},
		{value.Float(100.5), value.Null(), value.Int(4), value.Null()},
	}
	for _, row := range rows {
		require.NoError(t, src[0].Append(0, row[0]))
		require.NoError(t, src[1].Append(0, row[1]))
		require.NoError(t, src[1].Append(1, row[2]))
		require.NoError(t, src[2].Append(0, row[3]))
	}

	var buf bytes.Buffer
	fields := Layout(src)
	w := NewRecordWriter(&buf, fields)
	for i := range 2 {
		require.NoError(t, w.WriteRow(src, i))
	}
	require.Equal(t, 2, w.Count())
	w.Release()
	require.Equal(t, 2*RecordSize(fields), buf.Len())

	dst := testCurves(t)
	r := NewRecordReader(&buf, fields)
	var scratch []value.Value
	var err error
	for {
		scratch, err = r.ReadRow(dst, scratch)
		if err != nil {
			break
		}
	}
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, r.Count())

	for i, c := range dst {
		for dim := range c.Dimensions() {
			require.Equal(t, src[i].Values(dim), c.Values(dim), "%s[%d]", c.Name(), dim)
		}
	}
}

func TestRecordWriter_WriteRecord(t *testing.T) {
	fields := []Field{{format.TypeBoolean, 1}, {format.TypeInteger, 8}}

	var buf bytes.Buffer
	w := NewRecordWriter(&buf, fields)
	require.NoError(t, w.WriteRecord([]value.Value{value.Bool(true), value.Int(7)}))
	require.ErrorIs(t, w.WriteRecord([]value.Value{value.Bool(true)}), errs.ErrInvalidDimension)

	r := NewRecordReader(&buf, fields)
	values, err := r.ReadRecord(nil)
	require.NoError(t, err)
	require.Equal(t, []value.Value{value.Bool(true), value.Int(7)}, values)
}

func TestRecordReader_Truncated(t *testing.T) {
	fields := []Field{{format.TypeFloat, 8}, {format.TypeFloat, 8}}
	r := NewRecordReader(bytes.NewReader(make([]byte, 20)), fields)

	_, err := r.ReadRecord(nil)
	require.NoError(t, err)

	_, err = r.ReadRecord(nil)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
}

func TestRecordReader_EmptyLayout(t *testing.T) {
	r := NewRecordReader(bytes.NewReader([]byte{1, 2, 3}), nil)
	_, err := r.ReadRecord(nil)
	require.ErrorIs(t, err, io.EOF)
}

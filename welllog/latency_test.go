package welllog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/value"
)

func TestSplitLatencyName(t *testing.T) {
	base, suffix := splitLatencyName("latency_2")
	require.Equal(t, "latency_", base)
	require.Equal(t, "2", suffix)

	base, suffix = splitLatencyName("lat")
	require.Equal(t, "lat", base)
	require.Empty(t, suffix)
}

func TestAddLatencyCurve(t *testing.T) {
	now := time.UnixMilli(1_600_000_010_000)

	l := New()
	require.NoError(t, l.AddCurve(newCurve(t, "MD", format.TypeFloat, 1, 2)))

	first, err := AddLatencyCurve(l, "lat", "acquired", false, time.UnixMilli(1_600_000_000_000))
	require.NoError(t, err)
	require.Equal(t, "lat0", first.Name())
	require.Equal(t, "ms", first.Unit())
	require.Equal(t, "Time", first.Quantity())
	require.Equal(t, "acquired", first.Description())
	require.Equal(t, value.Int(1_600_000_000_000), first.Value(0, 0))

	second, err := AddLatencyCurve(l, "lat", "processed", false, now)
	require.NoError(t, err)
	require.Equal(t, "lat1", second.Name())
	require.Equal(t, value.Int(10_000), second.Value(0, 1))

	total, err := AddLatencyCurve(l, "lat", "total", true, now.Add(5*time.Second))
	require.NoError(t, err)
	require.Equal(t, "lat", total.Name())
	require.Equal(t, value.Int(15_000), total.Value(0, 0), "only the initial timestamp is subtracted")
	require.Equal(t, 4, l.NCurves())
}

func TestAddLatencyCurve_NoValue(t *testing.T) {
	l := New()
	require.NoError(t, l.AddCurve(newCurve(t, "MD", format.TypeFloat, 1)))

	c, err := curve.New("lat0", format.TypeInteger)
	require.NoError(t, err)
	require.NoError(t, c.AddValue(value.Null()))
	require.NoError(t, l.AddCurve(c))

	next, err := AddLatencyCurve(l, "lat", "", false, time.Now())
	require.NoError(t, err)
	require.Equal(t, "lat1", next.Name())
	require.True(t, next.Value(0, 0).IsNull())
}

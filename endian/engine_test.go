package endian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecords_BigEndian(t *testing.T) {
	order := Records()

	buf := order.AppendUint64(nil, math.Float64bits(1))
	require.Equal(t, []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}, buf)
	require.Equal(t, 1.0, math.Float64frombits(order.Uint64(buf)))

	buf = order.AppendUint64(buf[:0], uint64(math.MaxInt64))
	require.Equal(t, byte(0x7f), buf[0])
}

// Package endian defines the byte order of binary curve data files.
//
// Numeric fields of a binary data file are stored big-endian, whatever the
// byte order of the host. Engine bundles the read and append operations of
// encoding/binary so codecs take a single value:
//
//	order := endian.Records()
//	buf = order.AppendUint64(buf, math.Float64bits(v))
//	v = math.Float64frombits(order.Uint64(buf))
package endian

import "encoding/binary"

// Engine combines binary.ByteOrder and binary.AppendByteOrder.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Records returns the byte order of binary data files.
func Records() Engine {
	return binary.BigEndian
}

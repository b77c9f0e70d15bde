// Package encoding implements the fixed-width binary layout used for curve
// data stored outside the JSON document.
//
// A data file is a sequence of records, one per index position. A record holds
// one field per curve dimension, in curve definition order, with big-endian
// byte order:
//
//	float     8 bytes  IEEE-754 double        no-value: NaN
//	integer   8 bytes  signed two's complement no-value: 2^63-1
//	string    maxSize  UTF-8, space padded     no-value: all spaces
//	boolean   1 byte   0 or 1                  no-value: any other byte
//	datetime  30 bytes ISO-8601, space padded  no-value: all spaces
//
// Records carry no framing; the layout is derived from the curve definitions.
package encoding

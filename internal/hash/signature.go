// Package hash computes xxHash64 signatures of curve definitions.
package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Builder accumulates fields into an xxHash64 signature.
//
// Each field is terminated by a zero byte so that adjacent fields cannot
// run together ("ab","c" and "a","bc" hash differently).
type Builder struct {
	d *xxhash.Digest
}

// NewBuilder returns an empty signature builder.
func NewBuilder() *Builder {
	return &Builder{d: xxhash.New()}
}

// String adds a string field.
func (b *Builder) String(s string) *Builder {
	_, _ = b.d.WriteString(s)
	_, _ = b.d.Write([]byte{0})

	return b
}

// Int adds an integer field.
func (b *Builder) Int(n int) *Builder {
	return b.String(strconv.Itoa(n))
}

// Uint64 adds a previously computed signature as a field.
func (b *Builder) Uint64(n uint64) *Builder {
	return b.String(strconv.FormatUint(n, 16))
}

// Sum returns the signature of the fields added so far.
func (b *Builder) Sum() uint64 {
	return b.d.Sum64()
}

// Package token turns a JSON document into the flat event stream consumed by
// the well log reader and validator.
//
// Events are begin/end of arrays and objects, member names and scalars. Every
// event carries the byte offset where it starts, and a Decoder can translate
// any offset it has passed into a line and column.
package token

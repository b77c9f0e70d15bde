// Package writer serializes well logs as a JSON Well Log Format document.
//
// A Writer emits one top-level array. Each call to Write starts a new log
// with its header, curve definitions and data; Append adds further rows to
// the log written last, so a log can be produced in chunks as data arrives.
// Close completes every open bracket.
//
// Dense output has no whitespace. Pretty output indents the header and curve
// definitions and lays out curve data one row per line, with every column
// right-aligned to the widest value of its curve:
//
//	"data": [
//	  [1000.0,  2.25, "A"],
//	  [1000.5, 12.5,  "B"]
//	]
//
// Logs with a dataUri property have their data written to that binary file
// instead of inline, unless WithInlineData is set.
package writer

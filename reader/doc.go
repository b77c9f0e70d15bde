// Package reader reads well logs from JSON documents in a single streaming
// pass.
//
// A document is an array of log objects, each with "header", "curves" and
// "data" members in any order. Curve data is appended row by row, and an
// optional DataListener sees the log after every row so that a client can
// consume and clear values while the document is still being read:
//
//	r := reader.NewFileReader("log.json", reader.WithDataListener(func(l *welllog.Log) bool {
//		process(l)
//		l.ClearCurves()
//		return true
//	}))
//	logs, err := r.Read()
//
// When a log header carries a dataUri, curve values come from the referenced
// binary file instead of the document's "data" member. See package encoding
// for the record layout.
package reader

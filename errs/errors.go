// Package errs defines the sentinel errors returned by the jwlf packages.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should test for them with errors.Is.
package errs

import "errors"

var (
	// ErrParse indicates input that violates the JSON grammar.
	ErrParse = errors.New("malformed input")

	// ErrInterrupted is returned when a data listener asks the reader to stop.
	ErrInterrupted = errors.New("read interrupted by data listener")

	// ErrInvalidDimension indicates a dimension index or count outside the curve's range.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidCurve indicates an unusable curve definition.
	ErrInvalidCurve = errors.New("invalid curve")

	// ErrCurveNotFound indicates a curve lookup by index that is out of range.
	ErrCurveNotFound = errors.New("curve not found")

	// ErrLogCountMismatch is returned by a data read whose source holds a different number of logs.
	ErrLogCountMismatch = errors.New("log count mismatch")

	// ErrTruncatedRecord indicates a binary data file ending inside a record.
	ErrTruncatedRecord = errors.New("truncated binary record")

	// ErrInvalidDate indicates text that is not a recognized ISO-8601 date/time.
	ErrInvalidDate = errors.New("invalid ISO-8601 date")

	// ErrInvalidTable indicates malformed table content.
	ErrInvalidTable = errors.New("invalid table")

	// ErrInvalidProperty indicates a header property value of an unsupported kind.
	ErrInvalidProperty = errors.New("invalid header property")

	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("writer is closed")

	// ErrInvalidValueType indicates an unknown value type name.
	ErrInvalidValueType = errors.New("invalid value type")
)

var (
	// ErrSourceConsumed is returned when a reader over a non-seekable stream is read twice.
	ErrSourceConsumed = errors.New("source stream already consumed")

	// ErrUnsupportedURI indicates a dataUri that does not resolve to a local file.
	ErrUnsupportedURI = errors.New("unsupported data URI")

	// ErrNoLogWritten is returned when data is appended before any log was written.
	ErrNoLogWritten = errors.New("no log written")
)

package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/internal/pool"
	"github.com/arloliu/jwlf/value"
)

// RecordWriter writes data records to an underlying writer.
type RecordWriter struct {
	w      io.Writer
	fields []Field
	buf    *pool.ByteBuffer
	count  int
}

// NewRecordWriter creates a writer for records with the given layout.
func NewRecordWriter(w io.Writer, fields []Field) *RecordWriter {
	return &RecordWriter{
		w:      w,
		fields: fields,
		buf:    pool.GetRecordBuffer(),
	}
}

// WriteRecord writes one record. values must hold one value per field.
func (rw *RecordWriter) WriteRecord(values []value.Value) error {
	if len(values) != len(rw.fields) {
		return fmt.Errorf("%w: record has %d values for %d fields", errs.ErrInvalidDimension, len(values), len(rw.fields))
	}

	rw.buf.Reset()
	for i, f := range rw.fields {
		rw.buf.B = AppendValue(rw.buf.B, values[i], f)
	}

	return rw.flush()
}

// WriteRow writes row i of curves as one record. The curves must match the
// layout the writer was created with.
func (rw *RecordWriter) WriteRow(curves []*curve.Curve, row int) error {
	rw.buf.Reset()
	n := 0
	for _, c := range curves {
		for dim := range c.Dimensions() {
			if n >= len(rw.fields) {
				return fmt.Errorf("%w: curves exceed the %d fields of the record", errs.ErrInvalidDimension, len(rw.fields))
			}
			v := value.Null()
			if row < c.DimensionLen(dim) {
				v = c.Value(dim, row)
			}
			rw.buf.B = AppendValue(rw.buf.B, v, rw.fields[n])
			n++
		}
	}
	if n != len(rw.fields) {
		return fmt.Errorf("%w: curves fill %d of %d fields", errs.ErrInvalidDimension, n, len(rw.fields))
	}

	return rw.flush()
}

func (rw *RecordWriter) flush() error {
	if _, err := rw.buf.WriteTo(rw.w); err != nil {
		return fmt.Errorf("write record %d: %w", rw.count, err)
	}
	rw.count++

	return nil
}

// Count returns the number of records written.
func (rw *RecordWriter) Count() int {
	return rw.count
}

// Release returns the internal buffer to its pool. The writer must not be
// used afterwards.
func (rw *RecordWriter) Release() {
	pool.PutRecordBuffer(rw.buf)
	rw.buf = nil
}

// RecordReader reads data records from an underlying reader.
type RecordReader struct {
	r      io.Reader
	fields []Field
	buf    []byte
	count  int
}

// NewRecordReader creates a reader for records with the given layout.
func NewRecordReader(r io.Reader, fields []Field) *RecordReader {
	return &RecordReader{
		r:      r,
		fields: fields,
		buf:    make([]byte, RecordSize(fields)),
	}
}

// ReadRecord reads the next record and appends its values to dst.
//
// It returns io.EOF when no bytes remain, and an error wrapping
// errs.ErrTruncatedRecord when the input ends inside a record. Datetime fields
// that do not parse are returned as no-values together with an error wrapping
// errs.ErrInvalidDate; the record is still complete in that case.
func (rr *RecordReader) ReadRecord(dst []value.Value) ([]value.Value, error) {
	if len(rr.buf) == 0 {
		return dst, io.EOF
	}

	n, err := io.ReadFull(rr.r, rr.buf)
	switch {
	case errors.Is(err, io.EOF):
		return dst, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return dst, fmt.Errorf("%w: record %d has %d of %d bytes", errs.ErrTruncatedRecord, rr.count, n, len(rr.buf))
	case err != nil:
		return dst, fmt.Errorf("read record %d: %w", rr.count, err)
	}

	var fieldErrs []error
	src := rr.buf
	for _, f := range rr.fields {
		v, err := DecodeValue(src, f)
		if err != nil {
			fieldErrs = append(fieldErrs, err)
		}
		dst = append(dst, v)
		src = src[f.Size:]
	}
	rr.count++

	return dst, errors.Join(fieldErrs...)
}

// ReadRow reads the next record into curves, appending one value to every
// dimension of every curve. Errors follow ReadRecord; on io.EOF and truncation
// the curves are left unchanged.
func (rr *RecordReader) ReadRow(curves []*curve.Curve, scratch []value.Value) ([]value.Value, error) {
	values, err := rr.ReadRecord(scratch[:0])
	if len(values) == 0 {
		return values, err
	}

	n := 0
	for _, c := range curves {
		for dim := range c.Dimensions() {
			if n < len(values) {
				if aerr := c.Append(dim, values[n]); aerr != nil {
					return values, aerr
				}
			}
			n++
		}
	}

	return values, err
}

// Count returns the number of complete records read.
func (rr *RecordReader) Count() int {
	return rr.count
}

package writer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/arloliu/jwlf/encoding"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/internal/pool"
	"github.com/arloliu/jwlf/reader"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

// flushThreshold is the buffered size at which rows are flushed to the
// destination.
const flushThreshold = 64 * 1024

// depthDocument is the stack depth inside the top-level array.
const depthDocument = 1

// Writer writes logs to a destination. It is not safe for concurrent use.
type Writer struct {
	cfg    *Config
	s      *stackStream
	closer io.Closer

	started bool
	closed  bool

	// State of the log written last, which Append extends.
	current   *welllog.Log
	signature uint64
	columns   []column
	binary    *binarySink
}

// New creates a Writer on w.
func New(w io.Writer, opts ...Option) *Writer {
	cfg := newConfig(opts)

	return &Writer{cfg: cfg, s: newStackStream(w, cfg.indent)}
}

// NewFileWriter creates the file at path and a Writer on it. The file is
// closed by Close. Relative dataUri values resolve against the directory of
// the file unless WithBaseDir is given.
func NewFileWriter(path string, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	if cfg.baseDir == "" {
		cfg.baseDir = filepath.Dir(path)
	}

	return &Writer{cfg: cfg, s: newStackStream(f, cfg.indent), closer: f}, nil
}

// Write writes l as the next log of the document: its header, its curve
// definitions and its current data. The log stays open for Append until the
// next Write or Close.
func (w *Writer) Write(l *welllog.Log) error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	if l == nil {
		return fmt.Errorf("%w: nil log", errs.ErrInvalidCurve)
	}

	if err := w.finishLog(); err != nil {
		return err
	}
	if !w.started {
		w.started = true
		w.s.arrayStart(false)
	}

	binary := !w.cfg.inline && l.DataURI() != ""
	header := l.Header()
	if w.cfg.inline {
		header = header.Without(welllog.PropDataURI)
	}

	w.current = l
	w.signature = l.Signature()
	w.columns = newColumns(l, w.s.pretty())

	w.s.objectStart()
	w.s.fieldName("header")
	w.writeHeader(header)
	w.s.fieldName("curves")
	w.writeCurves(l)
	w.s.fieldName("data")
	w.s.arrayStart(false)

	if binary {
		sink, err := w.openBinary(l)
		if err != nil {
			return err
		}
		w.binary = sink
	}

	w.cfg.logger.Debug("writing log",
		zap.String("log", l.Name()),
		zap.Int("curves", l.NCurves()),
		zap.Bool("binary", binary))

	return w.writeData(l)
}

// Append writes the current data of l as further rows of the log written
// last. l must have the same curve definitions as that log; typically it is
// the same log, cleared and refilled between calls.
func (w *Writer) Append(l *welllog.Log) error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	if w.current == nil {
		return errs.ErrNoLogWritten
	}
	if l == nil || l.Signature() != w.signature {
		return fmt.Errorf("%w: appended data does not match the curves of log %q", errs.ErrInvalidCurve, w.current.Name())
	}

	w.current = l
	// Widths are measured per chunk; the number formats stay those of the
	// first chunk so a column keeps one precision.
	cols := newColumns(l, w.s.pretty())
	for i := range cols {
		cols[i].formatter = w.columns[i].formatter
	}
	w.columns = cols

	return w.writeData(l)
}

// Close completes the document and flushes it. A Writer that never wrote a
// log produces an empty array. Close closes the destination file of a
// NewFileWriter.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.finishLog()
	if !w.started {
		w.s.arrayStart(false)
	}
	w.s.closeTo(0)
	if w.s.pretty() {
		w.s.stream.WriteRaw("\n")
	}
	err = errors.Join(err, w.s.flush())

	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}

	return err
}

// finishLog closes the log written last, if any.
func (w *Writer) finishLog() error {
	if w.current == nil {
		return nil
	}

	w.s.closeTo(depthDocument)
	w.current, w.columns = nil, nil

	if w.binary != nil {
		err := w.binary.close()
		w.binary = nil

		return err
	}

	return nil
}

func (w *Writer) writeData(l *welllog.Log) error {
	n := l.NValues()
	if w.binary != nil {
		for row := range n {
			if err := w.binary.rw.WriteRow(l.Curves(), row); err != nil {
				return err
			}
		}

		return w.s.flush()
	}

	buf := pool.GetTextBuffer()
	defer pool.PutTextBuffer(buf)

	pretty := w.s.pretty()
	for row := range n {
		buf.Reset()
		buf.B = appendRow(buf.B, w.columns, row, pretty)
		w.s.raw(buf.Bytes())
		if w.s.buffered() > flushThreshold {
			if err := w.s.flush(); err != nil {
				return err
			}
		}
	}

	return w.s.flush()
}

func (w *Writer) writeHeader(h *welllog.Header) {
	w.s.objectStart()

	var index *column
	if len(w.columns) > 0 && w.columns[0].formatter != nil && w.columns[0].curve.Len() > 0 {
		index = &w.columns[0]
	}

	h.Visit(func(key string, v *fastjson.Value) {
		w.s.fieldName(key)
		if index != nil && isIndexProperty(key) {
			x := value.ToFloat64(value.As(h.Value(key), format.TypeFloat))
			if math.IsNaN(x) || math.IsInf(x, 0) {
				w.s.null()
			} else {
				w.s.rawString(index.formatter.Format(x))
			}

			return
		}
		w.writeJSON(v)
	})

	w.s.end()
}

func isIndexProperty(key string) bool {
	return key == welllog.PropStartIndex || key == welllog.PropEndIndex || key == welllog.PropStep
}

// writeJSON writes a header value. Arrays holding no objects stay on one line
// in pretty output.
func (w *Writer) writeJSON(v *fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		w.s.objectStart()
		o, _ := v.Object()
		o.Visit(func(key []byte, child *fastjson.Value) {
			w.s.fieldName(string(key))
			w.writeJSON(child)
		})
		w.s.end()
	case fastjson.TypeArray:
		items, _ := v.Array()
		horizontal := true
		for _, item := range items {
			if item.Type() == fastjson.TypeObject {
				horizontal = false
				break
			}
		}
		w.s.arrayStart(horizontal)
		for _, item := range items {
			w.writeJSON(item)
		}
		w.s.end()
	case fastjson.TypeString:
		w.s.str(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		w.s.raw(v.MarshalTo(nil))
	case fastjson.TypeTrue:
		w.s.boolean(true)
	case fastjson.TypeFalse:
		w.s.boolean(false)
	default:
		w.s.null()
	}
}

// writeCurves writes the curve definitions in the fixed key order name,
// description, quantity, unit, valueType, maxSize (string curves only),
// dimensions.
func (w *Writer) writeCurves(l *welllog.Log) {
	w.s.arrayStart(false)
	for _, c := range l.Curves() {
		w.s.objectStart()
		w.s.fieldName("name")
		w.s.str(c.Name())
		w.s.fieldName("description")
		w.s.optionalStr(c.Description())
		w.s.fieldName("quantity")
		w.s.optionalStr(c.Quantity())
		w.s.fieldName("unit")
		w.s.optionalStr(c.Unit())
		w.s.fieldName("valueType")
		w.s.str(c.ValueType().String())
		if c.ValueType() == format.TypeString {
			w.s.fieldName("maxSize")
			w.s.integer(c.MaxSize())
		}
		w.s.fieldName("dimensions")
		w.s.integer(c.Dimensions())
		w.s.end()
	}
	w.s.end()
}

// binarySink is the binary data file of the log being written.
type binarySink struct {
	f  *os.File
	bw *bufio.Writer
	rw *encoding.RecordWriter
}

func (w *Writer) openBinary(l *welllog.Log) (*binarySink, error) {
	path, err := reader.ResolveDataURI(l.DataURI(), w.cfg.baseDir)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create binary data of log %q: %w", l.Name(), err)
	}
	bw := bufio.NewWriterSize(f, flushThreshold)

	return &binarySink{f: f, bw: bw, rw: encoding.NewRecordWriter(bw, encoding.Layout(l.Curves()))}, nil
}

func (b *binarySink) close() error {
	b.rw.Release()
	err := b.bw.Flush()

	return errors.Join(err, b.f.Close())
}

// Marshal renders logs as one document with data inlined.
func Marshal(logs []*welllog.Log, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w := New(&buf, append(opts[:len(opts):len(opts)], WithInlineData())...)
	for _, l := range logs {
		if err := w.Write(l); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

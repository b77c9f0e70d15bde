package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/token"
	"github.com/arloliu/jwlf/welllog"
)

// Reader reads the logs of one JSON document.
//
// A file reader may be read any number of times. A stream reader can be read
// again only if the stream implements io.Seeker.
type Reader struct {
	cfg   *Config
	path  string
	r     io.Reader
	start int64
	reads int
}

// NewFileReader creates a reader for the file at path. Relative dataUri
// references resolve against the directory of the file.
func NewFileReader(path string, opts ...Option) *Reader {
	return &Reader{cfg: newConfig(opts), path: path}
}

// NewReader creates a reader for a stream. The stream is not closed.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := &Reader{cfg: newConfig(opts), r: r}
	if s, ok := r.(io.Seeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			rd.start = pos
		}
	}

	return rd
}

// Read reads all logs with their curve data.
//
// On failure the logs read so far are returned with the error: a
// *token.SyntaxError for malformed JSON, an error wrapping errs.ErrInterrupted
// when the data listener stopped the read, or a resource error.
func (r *Reader) Read() ([]*welllog.Log, error) {
	return r.read(true)
}

// ReadMetadata reads headers and curve definitions without curve data.
// ReadData can fill in the data later.
func (r *Reader) ReadMetadata() ([]*welllog.Log, error) {
	return r.read(false)
}

// ReadOne reads the document and returns its first log, or nil if it has none.
func (r *Reader) ReadOne() (*welllog.Log, error) {
	logs, err := r.Read()
	if len(logs) == 0 {
		return nil, err
	}

	return logs[0], err
}

// ReadData reads the document again with curve data and moves the curves into
// logs, which must come from an earlier read of the same document.
//
// It fails with errs.ErrLogCountMismatch when the document holds a different
// number of logs and with errs.ErrInvalidCurve when the curve definitions of a
// log differ. logs are left unchanged on any error.
func (r *Reader) ReadData(logs []*welllog.Log) error {
	fresh, err := r.read(true)
	if err != nil {
		return err
	}
	if len(fresh) != len(logs) {
		return fmt.Errorf("%w: document has %d logs, %d given", errs.ErrLogCountMismatch, len(fresh), len(logs))
	}
	for i, l := range logs {
		if l.Signature() != fresh[i].Signature() {
			return fmt.Errorf("%w: curve definitions of log %d (%q) differ from the document", errs.ErrInvalidCurve, i, l.Name())
		}
	}
	for i, l := range logs {
		l.SetCurves(fresh[i].Curves())
	}

	return nil
}

func (r *Reader) read(bulk bool) ([]*welllog.Log, error) {
	src, source, closeFn, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	baseDir := r.cfg.baseDir
	if baseDir == "" && r.path != "" {
		baseDir = filepath.Dir(r.path)
	}

	logger := r.cfg.logger.With(zap.String("source", source))
	p := &parser{
		dec:      token.NewDecoder(src),
		logger:   logger,
		listener: r.cfg.listener,
		bulk:     bulk,
		baseDir:  baseDir,
		source:   source,
	}

	logs, err := p.parse()
	logger.Debug("document read", zap.Int("logs", len(logs)), zap.Bool("data", bulk), zap.Error(err))

	return logs, err
}

func (r *Reader) open() (io.Reader, string, func(), error) {
	defer func() { r.reads++ }()

	if r.path != "" {
		f, err := os.Open(r.path)
		if err != nil {
			return nil, "", nil, fmt.Errorf("open %s: %w", r.path, err)
		}

		return f, r.path, func() { _ = f.Close() }, nil
	}

	if r.reads > 0 {
		s, ok := r.r.(io.Seeker)
		if !ok {
			return nil, "", nil, errs.ErrSourceConsumed
		}
		if _, err := s.Seek(r.start, io.SeekStart); err != nil {
			return nil, "", nil, fmt.Errorf("rewind stream: %w", err)
		}
	}

	return r.r, "stream", func() {}, nil
}

package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/jwlf/encoding"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

const binaryBufferSize = 64 * 1024

// ResolveDataURI returns the local file path a dataUri refers to. Relative
// references resolve against baseDir when it is not empty. Only file URIs and
// plain paths are supported.
func ResolveDataURI(uri, baseDir string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", errs.ErrUnsupportedURI, uri, err)
	}

	switch u.Scheme {
	case "", "file":
	default:
		return "", fmt.Errorf("%w: %q has scheme %q", errs.ErrUnsupportedURI, uri, u.Scheme)
	}

	if u.Path == "" {
		return "", fmt.Errorf("%w: %q has no path", errs.ErrUnsupportedURI, uri)
	}

	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	return path, nil
}

// readBinary appends the records of the log's binary data file to its curves.
// The data listener is called after every record.
func (p *parser) readBinary(l *welllog.Log) error {
	uri := l.DataURI()
	path, err := ResolveDataURI(uri, p.baseDir)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open binary data of log %q: %w", l.Name(), err)
	}
	defer f.Close()

	curves := l.Curves()
	rr := encoding.NewRecordReader(bufio.NewReaderSize(f, binaryBufferSize), encoding.Layout(curves))

	var scratch []value.Value
	for {
		scratch, err = rr.ReadRow(curves, scratch)
		switch {
		case errors.Is(err, io.EOF):
			p.logger.Debug("binary data read", zap.String("uri", uri), zap.Int("records", rr.Count()))
			return nil
		case errors.Is(err, errs.ErrTruncatedRecord):
			p.logger.Warn("binary data ends inside a record", zap.String("uri", uri), zap.Error(err))
			return nil
		case errors.Is(err, errs.ErrInvalidDate):
			p.logger.Warn("invalid datetime in binary data", zap.String("uri", uri), zap.Int("record", rr.Count()-1), zap.Error(err))
		case err != nil:
			return fmt.Errorf("read binary data %q: %w", uri, err)
		}

		if !p.notify(l) {
			return p.interrupted()
		}
	}
}

// Package jwlf reads, validates and writes well logs in the JSON Well Log
// Format.
//
// A document is a JSON array of logs. Each log has a header of metadata
// properties, a list of curve definitions and the curve data, one array per
// row with one value per curve. The data of large logs may instead live in a
// binary file referenced by the header's dataUri.
//
// # Basic Usage
//
// Reading a file:
//
//	logs, err := jwlf.ReadFile("logs.json")
//	if err != nil {
//	    return err
//	}
//	for _, l := range logs {
//	    md := l.IndexCurve()
//	    fmt.Println(l.Name(), md.Name(), l.NValues())
//	}
//
// Validating a file:
//
//	msgs, err := jwlf.ValidateFile("logs.json")
//	for _, m := range msgs {
//	    fmt.Println(m)
//	}
//
// Writing logs:
//
//	err := jwlf.WriteFile("out.json", logs, writer.WithPretty())
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the reader,
// validate and writer packages. Streaming reads with a data listener,
// metadata-only reads and chunked writes are available from those packages
// directly. The log model lives in welllog and curve.
package jwlf

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/jwlf/reader"
	"github.com/arloliu/jwlf/validate"
	"github.com/arloliu/jwlf/welllog"
	"github.com/arloliu/jwlf/writer"
)

// sniffSize is the number of leading bytes DetectFile inspects.
const sniffSize = 4096

// ReadFile reads all logs of the document stored in path, including data
// held in binary files next to it.
func ReadFile(path string, opts ...reader.Option) ([]*welllog.Log, error) {
	return reader.NewFileReader(path, opts...).Read()
}

// Read reads all logs of the document read from r.
func Read(r io.Reader, opts ...reader.Option) ([]*welllog.Log, error) {
	return reader.NewReader(r, opts...).Read()
}

// ReadOne reads the first log of the document read from r. It returns nil
// when the document holds no logs.
func ReadOne(r io.Reader, opts ...reader.Option) (*welllog.Log, error) {
	return reader.NewReader(r, opts...).ReadOne()
}

// ReadString reads all logs of doc.
func ReadString(doc string, opts ...reader.Option) ([]*welllog.Log, error) {
	return Read(strings.NewReader(doc), opts...)
}

// ValidateFile validates the document stored in path.
func ValidateFile(path string, opts ...validate.Option) ([]validate.Message, error) {
	return validate.New(opts...).ValidateFile(path)
}

// Validate validates the document read from r.
func Validate(r io.Reader, opts ...validate.Option) ([]validate.Message, error) {
	return validate.New(opts...).Validate(r)
}

// WriteFile writes logs to path as one document. Logs with a dataUri have
// their data written to that binary file, resolved against the directory of
// path, unless writer.WithInlineData is given.
func WriteFile(path string, logs []*welllog.Log, opts ...writer.Option) error {
	w, err := writer.NewFileWriter(path, opts...)
	if err != nil {
		return err
	}

	for _, l := range logs {
		if err := w.Write(l); err != nil {
			_ = w.Close()
			return err
		}
	}

	return w.Close()
}

// Marshal renders logs as one dense document with all data inline.
func Marshal(logs []*welllog.Log, opts ...writer.Option) ([]byte, error) {
	return writer.Marshal(logs, opts...)
}

// String renders logs as a pretty-printed document with all data inline.
// It returns the empty string if a log cannot be rendered.
func String(logs ...*welllog.Log) string {
	out, err := writer.Marshal(logs, writer.WithPretty())
	if err != nil {
		return ""
	}

	return string(out)
}

// Detect returns the probability, between 0 and 1, that a file with the given
// name and leading content is a JSON Well Log Format document. A nil content
// judges by the name alone.
func Detect(name string, content []byte) float64 {
	if content == nil {
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			return 0.75
		}

		return 0.2
	}

	for _, marker := range []string{`"header"`, "[", ":"} {
		if !bytes.Contains(content, []byte(marker)) {
			return 0.05
		}
	}
	// Curve definitions may come late in the stream, so their absence is
	// not conclusive.
	if bytes.Contains(content, []byte(`"curves"`)) {
		return 0.95
	}

	return 0.75
}

// DetectFile applies Detect to the file at path. Directories and missing files
// give 0.
func DetectFile(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, err
	}
	if info.IsDir() {
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, err
	}

	return Detect(filepath.Base(path), buf[:n]), nil
}

package token

import (
	"errors"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// Decoder reads events from a JSON document.
type Decoder struct {
	dec   *jsontext.Decoder
	lines *lineReader
}

// NewDecoder returns a decoder reading from r. Duplicate member names and
// invalid UTF-8 are tolerated; everything else must be well-formed JSON.
func NewDecoder(r io.Reader) *Decoder {
	lines := newLineReader(r)

	return &Decoder{
		dec: jsontext.NewDecoder(lines,
			jsontext.AllowDuplicateNames(true),
			jsontext.AllowInvalidUTF8(true),
		),
		lines: lines,
	}
}

// Next returns the next event. It returns io.EOF once the top-level value has
// been consumed, and a *SyntaxError when the document is malformed.
func (d *Decoder) Next() (Token, error) {
	start := d.tokenStart()
	tok, err := d.dec.ReadToken()
	if err != nil {
		return Token{}, d.wrap(err)
	}
	d.lines.advance(start)

	t := Token{Offset: start}
	switch tok.Kind() {
	case '[':
		t.Kind = BeginArray
	case ']':
		t.Kind = EndArray
	case '{':
		t.Kind = BeginObject
	case '}':
		t.Kind = EndObject
	case 'n':
		t.Kind = Null
	case 't':
		t.Kind = True
	case 'f':
		t.Kind = False
	case '0':
		t.Kind, t.Text = Number, tok.String()
	case '"':
		t.Kind, t.Text = String, tok.String()
		if k, n := d.dec.StackIndex(d.dec.StackDepth()); k == '{' && n%2 == 1 {
			t.Kind = Name
		}
	default:
		t.Kind = Invalid
	}

	return t, nil
}

// tokenStart returns the offset of the first byte of the next token. Peeking
// fills the buffer past the whitespace and separator that precede it.
func (d *Decoder) tokenStart() int64 {
	off := d.dec.InputOffset()
	if d.dec.PeekKind() == 0 {
		return off
	}
	for _, c := range d.dec.UnreadBuffer() {
		switch c {
		case ' ', '\t', '\r', '\n', ',', ':':
			off++
		default:
			return off
		}
	}

	return off
}

// Capture returns a copy of the raw JSON text of the next complete value.
func (d *Decoder) Capture() ([]byte, error) {
	v, err := d.dec.ReadValue()
	if err != nil {
		return nil, d.wrap(err)
	}

	return v.Clone(), nil
}

// Skip consumes the next complete value.
func (d *Decoder) Skip() error {
	return d.wrap(d.dec.SkipValue())
}

// Depth returns the number of open arrays and objects.
func (d *Decoder) Depth() int {
	return d.dec.StackDepth()
}

// Offset returns the byte offset just past the last consumed event.
func (d *Decoder) Offset() int64 {
	return d.dec.InputOffset()
}

// Locate translates a byte offset into a line and column. Offsets must not
// decrease between calls.
func (d *Decoder) Locate(offset int64) Location {
	return d.lines.locate(offset)
}

// Location returns the position just past the last consumed event.
func (d *Decoder) Location() Location {
	return d.lines.locate(d.dec.InputOffset())
}

func (d *Decoder) wrap(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}

	var se *jsontext.SyntacticError
	switch {
	case errors.As(err, &se):
		cause := se.Err
		if cause == nil {
			cause = se
		}

		return &SyntaxError{Location: d.lines.locate(se.ByteOffset), Err: cause}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &SyntaxError{Location: d.Location(), Err: io.ErrUnexpectedEOF}
	default:
		return err
	}
}

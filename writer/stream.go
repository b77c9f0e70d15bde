package writer

import (
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI escapes strings the way encoding/json does, without HTML escaping.
var jsonAPI = jsoniter.Config{EscapeHTML: false}.Froze()

const streamBufferSize = 16 * 1024

// frameKind is the type of an open container.
type frameKind uint8

const (
	frameObject frameKind = iota
	frameArray
)

// frame is an open container on the stack.
type frame struct {
	kind frameKind
	// members counts the values or fields written so far.
	members int
	// horizontal containers keep their members on one line in pretty output.
	horizontal bool
}

// stackStream wraps jsoniter.Stream with a stack of unclosed containers.
// Separators and pretty-printing whitespace are derived from the stack, and
// closeTo completes any number of open containers at once.
type stackStream struct {
	stream *jsoniter.Stream
	indent string
	stack  []frame
	// field is set between a field name and its value.
	field bool
}

func newStackStream(w io.Writer, indent string) *stackStream {
	return &stackStream{
		stream: jsoniter.NewStream(jsonAPI, w, streamBufferSize),
		indent: indent,
		stack:  make([]frame, 0, 8),
	}
}

func (s *stackStream) pretty() bool { return s.indent != "" }

// depth returns the number of open containers.
func (s *stackStream) depth() int { return len(s.stack) }

func (s *stackStream) newline(depth int) {
	s.stream.WriteRaw("\n")
	s.stream.WriteRaw(strings.Repeat(s.indent, depth))
}

// next writes whatever must precede a new value or field in the innermost
// container.
func (s *stackStream) next() {
	if s.field {
		s.field = false
		return
	}
	if len(s.stack) == 0 {
		return
	}

	top := &s.stack[len(s.stack)-1]
	if top.members > 0 {
		s.stream.WriteMore()
	}
	if s.pretty() {
		if top.horizontal {
			if top.members > 0 {
				s.stream.WriteRaw(" ")
			}
		} else {
			s.newline(len(s.stack))
		}
	}
	top.members++
}

func (s *stackStream) objectStart() {
	s.next()
	s.stream.WriteObjectStart()
	s.stack = append(s.stack, frame{kind: frameObject})
}

func (s *stackStream) arrayStart(horizontal bool) {
	s.next()
	s.stream.WriteArrayStart()
	s.stack = append(s.stack, frame{kind: frameArray, horizontal: horizontal})
}

// end closes the innermost container.
func (s *stackStream) end() {
	if len(s.stack) == 0 {
		return
	}
	if s.field {
		// A field without a value gets a null.
		s.stream.WriteNil()
		s.field = false
	}

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if s.pretty() && !top.horizontal && top.members > 0 {
		s.newline(len(s.stack))
	}
	if top.kind == frameObject {
		s.stream.WriteObjectEnd()
	} else {
		s.stream.WriteArrayEnd()
	}
}

// closeTo closes containers until depth remain open.
func (s *stackStream) closeTo(depth int) {
	for len(s.stack) > depth {
		s.end()
	}
}

func (s *stackStream) fieldName(name string) {
	s.next()
	s.stream.WriteObjectField(name)
	if s.pretty() {
		s.stream.WriteRaw(" ")
	}
	s.field = true
}

func (s *stackStream) str(v string) {
	s.next()
	s.stream.WriteString(v)
}

// optionalStr writes v, or null when v is empty.
func (s *stackStream) optionalStr(v string) {
	if v == "" {
		s.null()
		return
	}
	s.str(v)
}

func (s *stackStream) integer(v int) {
	s.next()
	s.stream.WriteInt(v)
}

func (s *stackStream) boolean(v bool) {
	s.next()
	s.stream.WriteBool(v)
}

func (s *stackStream) null() {
	s.next()
	s.stream.WriteNil()
}

// raw writes pre-rendered JSON as one value.
func (s *stackStream) raw(v []byte) {
	s.next()
	_, _ = s.stream.Write(v)
}

func (s *stackStream) rawString(v string) {
	s.next()
	s.stream.WriteRaw(v)
}

// buffered returns the number of bytes not yet flushed.
func (s *stackStream) buffered() int { return s.stream.Buffered() }

func (s *stackStream) flush() error {
	if err := s.stream.Flush(); err != nil {
		return err
	}

	return s.stream.Error
}

// quote returns v as a JSON string literal.
func quote(v string) []byte {
	st := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(st)
	st.WriteString(v)

	return append([]byte(nil), st.Buffer()...)
}

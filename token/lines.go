package token

import (
	"bytes"
	"io"
)

// lineReader records the offset of every newline that passes through it.
//
// The decoder reads ahead, so newlines are recorded before the tokens that
// follow them are consumed. Decoder.Next advances past the newlines preceding
// each token, so only the newlines of the read-ahead buffer are retained.
type lineReader struct {
	r    io.Reader
	read int64
	// pending[head:] are the newline offsets not yet passed.
	pending []int64
	head    int
	lines   int
	last    int64
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: r, last: -1}
}

func (lr *lineReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	chunk := p[:n]
	base := lr.read
	for {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			break
		}
		base += int64(i)
		lr.pending = append(lr.pending, base)
		base++
		chunk = chunk[i+1:]
	}
	lr.read += int64(n)

	return n, err
}

// advance counts the newlines before offset and releases them.
func (lr *lineReader) advance(offset int64) {
	for lr.head < len(lr.pending) && lr.pending[lr.head] < offset {
		lr.last = lr.pending[lr.head]
		lr.head++
		lr.lines++
	}

	switch {
	case lr.head == len(lr.pending):
		lr.pending, lr.head = lr.pending[:0], 0
	case lr.head > len(lr.pending)/2:
		lr.pending = append(lr.pending[:0], lr.pending[lr.head:]...)
		lr.head = 0
	}
}

// retained returns the number of newline offsets held.
func (lr *lineReader) retained() int {
	return len(lr.pending) - lr.head
}

// locate resolves offset into a line and column. Offsets must be requested in
// non-decreasing order; an earlier offset resolves against the latest line
// seen so far.
func (lr *lineReader) locate(offset int64) Location {
	lr.advance(offset)

	col := offset - lr.last
	if col < 1 {
		col = 1
	}

	return Location{Line: lr.lines + 1, Column: int(col), Offset: offset}
}

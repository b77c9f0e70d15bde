package reader

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/token"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

// Member names of a log object and of a curve definition.
const (
	keyHeader = "header"
	keyCurves = "curves"
	keyData   = "data"

	keyName        = "name"
	keyDescription = "description"
	keyQuantity    = "quantity"
	keyUnit        = "unit"
	keyValueType   = "valueType"
	keyDimensions  = "dimensions"
	keyMaxSize     = "maxSize"
)

// parser holds the state of one pass over a document.
type parser struct {
	dec      *token.Decoder
	logger   *zap.Logger
	listener DataListener
	bulk     bool
	baseDir  string
	source   string
}

// logState is the per-log part of the parser state.
type logState struct {
	log        *welllog.Log
	pending    *pending
	inlineRows int
	overflowed bool
}

func (p *parser) parse() ([]*welllog.Log, error) {
	tok, err := p.dec.Next()
	if err != nil {
		return nil, p.eof(err)
	}

	switch tok.Kind {
	case token.BeginArray:
	case token.BeginObject:
		// A bare log object is accepted as a document holding one log.
		l, err := p.readLog()
		if l == nil {
			return nil, err
		}

		return []*welllog.Log{l}, err
	default:
		p.logger.Warn("document is not an array of logs", zap.Stringer("token", tok))
		return nil, nil
	}

	var logs []*welllog.Log
	for {
		tok, err := p.dec.Next()
		if err != nil {
			return logs, err
		}

		switch tok.Kind {
		case token.EndArray:
			return logs, nil
		case token.BeginObject:
			l, err := p.readLog()
			if l != nil {
				logs = append(logs, l)
			}
			if err != nil {
				return logs, err
			}
		case token.BeginArray:
			if err := p.skipOpened(); err != nil {
				return logs, err
			}
		}
	}
}

// eof maps a clean end of input to an empty result.
func (p *parser) eof(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (p *parser) readLog() (*welllog.Log, error) {
	st := &logState{log: welllog.New()}
	for {
		tok, err := p.dec.Next()
		if err != nil {
			return st.log, err
		}

		switch tok.Kind {
		case token.EndObject:
			return st.log, p.finish(st)
		case token.Name:
			if err := p.readMember(st, tok.Text); err != nil {
				return st.log, err
			}
		}
	}
}

func (p *parser) readMember(st *logState, name string) error {
	switch name {
	case keyHeader:
		return p.readHeader(st)

	case keyCurves:
		if err := p.readCurves(st); err != nil {
			return err
		}
		if st.pending != nil {
			if dropped := st.pending.move(st.log, p.appendValue); dropped > 0 {
				p.logger.Warn("curve data without matching curve definition dropped", zap.Int("values", dropped))
			}
			st.pending = nil
		}

		return nil

	case keyData:
		return p.readData(st)

	default:
		return p.dec.Skip()
	}
}

func (p *parser) readHeader(st *logState) error {
	offset := p.dec.Offset()
	raw, err := p.dec.Capture()
	if err != nil {
		return err
	}

	h, err := welllog.ParseHeader(raw)
	if err != nil {
		p.logger.Warn("header ignored", zap.Int64("offset", offset), zap.Error(err))
		return nil
	}
	st.log.SetHeader(h)

	return nil
}

func (p *parser) readCurves(st *logState) error {
	tok, err := p.dec.Next()
	if err != nil {
		return err
	}
	if tok.Kind != token.BeginArray {
		p.logger.Warn("curves is not an array", zap.Stringer("token", tok), zap.Int64("offset", tok.Offset))
		return p.skipIfOpened(tok)
	}

	for {
		tok, err := p.dec.Next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.EndArray:
			return nil
		case token.BeginObject:
			c, err := p.readCurveDefinition(tok.Offset)
			if err != nil {
				return err
			}
			if err := st.log.AddCurve(c); err != nil {
				return err
			}
		default:
			p.logger.Warn("curve definition is not an object", zap.Stringer("token", tok), zap.Int64("offset", tok.Offset))
			if err := p.skipIfOpened(tok); err != nil {
				return err
			}
		}
	}
}

func (p *parser) readCurveDefinition(offset int64) (*curve.Curve, error) {
	var (
		name      string
		hasName   bool
		opts      []curve.Option
		valueType = format.TypeFloat
		dims      = 1
		maxSize   = format.DefaultStringSize
	)

	for {
		tok, err := p.dec.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndObject {
			break
		}
		if tok.Kind != token.Name {
			continue
		}

		key := tok.Text
		switch key {
		case keyName, keyDescription, keyQuantity, keyUnit, keyValueType, keyDimensions, keyMaxSize:
		default:
			if err := p.dec.Skip(); err != nil {
				return nil, err
			}

			continue
		}

		v, err := p.scalar()
		if err != nil {
			return nil, err
		}
		if v.Kind == token.Null {
			continue
		}
		text := textOf(v)

		switch key {
		case keyName:
			name, hasName = text, true
		case keyDescription:
			opts = append(opts, curve.WithDescription(text))
		case keyQuantity:
			opts = append(opts, curve.WithQuantity(text))
		case keyUnit:
			opts = append(opts, curve.WithUnit(text))
		case keyValueType:
			vt, err := format.ParseValueType(text)
			if err != nil {
				p.logger.Warn("unrecognized value type, using float", zap.String("valueType", text), zap.Int64("offset", v.Offset))
				vt = format.TypeFloat
			}
			valueType = vt
		case keyDimensions:
			n, ok := intOf(v)
			if !ok || n < 1 {
				p.logger.Warn("invalid dimensions, using 1", zap.String("dimensions", text), zap.Int64("offset", v.Offset))
				n = 1
			}
			dims = n
		case keyMaxSize:
			n, ok := intOf(v)
			if !ok || n < 0 {
				p.logger.Warn("invalid maxSize ignored", zap.String("maxSize", text), zap.Int64("offset", v.Offset))
				continue
			}
			maxSize = n
		}
	}

	if !hasName {
		p.logger.Warn("curve name is missing", zap.Int64("offset", offset))
	}

	opts = append(opts, curve.WithDimensions(dims), curve.WithMaxSize(maxSize))

	return curve.New(name, valueType, opts...)
}

func (p *parser) readData(st *logState) error {
	if !p.bulk || st.log.DataURI() != "" {
		return p.dec.Skip()
	}

	tok, err := p.dec.Next()
	if err != nil {
		return err
	}
	if tok.Kind != token.BeginArray {
		if tok.Kind != token.Null {
			p.logger.Warn("data is not an array", zap.Stringer("token", tok), zap.Int64("offset", tok.Offset))
		}

		return p.skipIfOpened(tok)
	}

	if st.log.NCurves() == 0 {
		st.pending = &pending{}
	}

	level := 1
	curveNo, dim := 0, 0
	for {
		tok, err := p.dec.Next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.BeginArray:
			level++
			dim = 0

		case token.EndArray:
			level--
			dim = 0
			switch level {
			case 0:
				return nil
			case 1:
				curveNo = 0
				p.endRow(st)
				if !p.notify(st.log) {
					return p.interrupted()
				}
			default:
				curveNo++
			}

		case token.BeginObject:
			p.logger.Warn("object in curve data skipped", zap.Int64("offset", tok.Offset))
			if err := p.skipOpened(); err != nil {
				return err
			}

		default:
			if level == 1 {
				p.logger.Warn("curve data value outside a row ignored", zap.Int64("offset", tok.Offset))
				continue
			}
			p.store(st, curveNo, dim, p.valueOf(tok))
			if level == 2 {
				curveNo++
			} else {
				dim++
			}
		}
	}
}

func (p *parser) store(st *logState, curveNo, dim int, v value.Value) {
	if st.pending != nil {
		st.pending.add(curveNo, dim, v)
		return
	}

	c, err := st.log.Curve(curveNo)
	if err == nil {
		err = p.appendValue(c, dim, v)
	}
	if err != nil && !st.overflowed {
		st.overflowed = true
		p.logger.Warn("curve data beyond the curve definitions dropped",
			zap.Int("curve", curveNo), zap.Int("dimension", dim), zap.Int64("offset", p.dec.Offset()))
	}
}

// appendValue appends v to dimension dim of c. Text that a datetime curve
// cannot parse is stored as a no-value and logged.
func (p *parser) appendValue(c *curve.Curve, dim int, v value.Value) error {
	if c.ValueType() == format.TypeDateTime {
		if s, ok := v.AsString(); ok && s != "" && value.As(v, format.TypeDateTime).IsNull() {
			p.logger.Warn("unparsable datetime value", zap.String("curve", c.Name()), zap.String("value", s))
		}
	}

	return c.Append(dim, v)
}

// endRow completes a row: every dimension of every curve is padded with
// no-values to the length of the longest one.
func (p *parser) endRow(st *logState) {
	st.inlineRows++
	if st.pending != nil {
		st.pending.endRow()
		return
	}

	curves := st.log.Curves()
	n := 0
	for _, c := range curves {
		for dim := range c.Dimensions() {
			n = max(n, c.DimensionLen(dim))
		}
	}
	for _, c := range curves {
		for dim := range c.Dimensions() {
			for c.DimensionLen(dim) < n {
				_ = c.Append(dim, value.Null())
			}
		}
	}
}

func (p *parser) finish(st *logState) error {
	l := st.log
	if st.pending != nil {
		p.logger.Warn("curve data without curve definitions dropped", zap.String("log", l.Name()))
		st.pending = nil
	}

	if p.bulk && l.DataURI() != "" {
		if st.inlineRows > 0 {
			l.ClearCurves()
		}
		if err := p.readBinary(l); err != nil {
			return err
		}
	}

	l.TrimCurves()
	p.logger.Debug("log read",
		zap.String("log", l.Name()),
		zap.Int("curves", l.NCurves()),
		zap.Int("rows", l.NValues()))

	return nil
}

func (p *parser) notify(l *welllog.Log) bool {
	return p.listener == nil || p.listener(l)
}

func (p *parser) interrupted() error {
	return fmt.Errorf("%w: %s", errs.ErrInterrupted, p.source)
}

// scalar reads the next value. Arrays and objects are skipped and reported by
// their begin token.
func (p *parser) scalar() (token.Token, error) {
	tok, err := p.dec.Next()
	if err != nil {
		return tok, err
	}

	return tok, p.skipIfOpened(tok)
}

// skipIfOpened skips the rest of an array or object whose begin token was tok.
func (p *parser) skipIfOpened(tok token.Token) error {
	if tok.Kind == token.BeginArray || tok.Kind == token.BeginObject {
		return p.skipOpened()
	}

	return nil
}

// skipOpened consumes events up to the end of the innermost open container.
func (p *parser) skipOpened() error {
	depth := p.dec.Depth()
	for p.dec.Depth() >= depth {
		if _, err := p.dec.Next(); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) valueOf(tok token.Token) value.Value {
	switch tok.Kind {
	case token.Number:
		v, err := value.ParseNumber(tok.Text)
		if err != nil {
			p.logger.Warn("unreadable number", zap.String("text", tok.Text), zap.Int64("offset", tok.Offset))
		}

		return v
	case token.String:
		return value.String(tok.Text)
	case token.True:
		return value.Bool(true)
	case token.False:
		return value.Bool(false)
	default:
		return value.Null()
	}
}

func textOf(tok token.Token) string {
	switch tok.Kind {
	case token.String, token.Number:
		return tok.Text
	case token.True:
		return "true"
	case token.False:
		return "false"
	default:
		return ""
	}
}

func intOf(tok token.Token) (int, bool) {
	if tok.Kind != token.Number {
		return 0, false
	}
	if n, err := strconv.Atoi(tok.Text); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}

	return int(f), true
}

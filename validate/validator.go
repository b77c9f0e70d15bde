package validate

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/internal/options"
	"github.com/arloliu/jwlf/isodate"
	"github.com/arloliu/jwlf/token"
	"github.com/arloliu/jwlf/value"
	"github.com/arloliu/jwlf/welllog"
)

// stepTolerance is the largest difference between two steps that still
// counts as equal.
const stepTolerance = 0.001

// errAbort unwinds a pass after a violation that ends validation.
var errAbort = errors.New("validation aborted")

// Validator checks documents. A Validator is safe for concurrent use.
type Validator struct {
	logger *zap.Logger
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	c := &Config{logger: zap.NewNop()}
	// The options never fail.
	_ = options.Apply(c, opts...)

	return &Validator{logger: c.logger}
}

// ValidateFile validates the document stored in path.
func (v *Validator) ValidateFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return v.Validate(f)
}

// Validate validates the document read from r.
//
// A document that is not well-formed JSON yields the messages found up to the
// syntax error followed by one Severe message. The returned error is non-nil
// only when r itself fails.
func (v *Validator) Validate(r io.Reader) ([]Message, error) {
	p := &pass{dec: token.NewDecoder(r), logger: v.logger}
	err := p.document()

	var se *token.SyntaxError
	switch {
	case err == nil, errors.Is(err, errAbort):
	case errors.As(err, &se):
		loc := se.Location
		p.add(Severe, &loc, "Invalid JSON: %v.", se.Err)
	default:
		return p.messages, err
	}

	return p.messages, nil
}

// pass is the state of one validation run.
type pass struct {
	dec      *token.Decoder
	logger   *zap.Logger
	messages []Message
}

type curveDef struct {
	name      string
	valueType format.ValueType
	dims      int
	badValue  bool
}

// logCheck is the per-log part of the pass.
type logCheck struct {
	header    *welllog.Header
	curves    []curveDef
	hasData   bool
	index     indexStats
	validData bool
}

// indexStats tracks the index column as rows go by.
type indexStats struct {
	count            int
	start, end, prev float64
	minStep, maxStep float64
}

func (s *indexStats) add(x float64) {
	if s.count == 0 {
		s.start = x
		s.minStep, s.maxStep = math.Inf(1), math.Inf(-1)
	} else {
		step := x - s.prev
		s.minStep = math.Min(s.minStep, step)
		s.maxStep = math.Max(s.maxStep, step)
	}
	s.end, s.prev = x, x
	s.count++
}

func (p *pass) add(level Level, loc *token.Location, format string, args ...any) {
	m := Message{Level: level, Text: fmt.Sprintf(format, args...), Location: loc}
	p.messages = append(p.messages, m)
	p.logger.Debug("validation finding", zap.Stringer("message", m))
}

func (p *pass) at(tok token.Token) *token.Location {
	loc := p.dec.Locate(tok.Offset)
	return &loc
}

func (p *pass) document() error {
	tok, err := p.dec.Next()
	if errors.Is(err, io.EOF) {
		p.add(Info, nil, "No logs found.")
		return nil
	}
	if err != nil {
		return err
	}

	if tok.Kind != token.BeginArray {
		p.add(Warning, p.at(tok), "Document is not an array of logs.")
		if err := p.skipIfOpened(tok); err != nil {
			return err
		}
		p.add(Info, nil, "No logs found.")

		return nil
	}

	logs := 0
	for {
		tok, err := p.dec.Next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.EndArray:
			if logs == 0 {
				p.add(Info, nil, "No logs found.")
			}

			return nil
		case token.BeginObject:
			logs++
			if err := p.log(tok); err != nil {
				return err
			}
		default:
			p.add(Warning, p.at(tok), "Unrecognized element in log array: %s. Ignored.", tok)
			if err := p.skipIfOpened(tok); err != nil {
				return err
			}
		}
	}
}

func (p *pass) log(start token.Token) error {
	loc := p.at(start)
	st := &logCheck{}

	for {
		tok, err := p.dec.Next()
		if err != nil {
			return err
		}
		if tok.Kind == token.EndObject {
			break
		}

		switch tok.Text {
		case "header":
			err = p.header(st, tok)
		case "curves":
			err = p.curves(st)
		case "data":
			err = p.data(st)
		default:
			p.add(Warning, p.at(tok), "Unrecognized log element: %q. Ignored.", tok.Text)
			err = p.dec.Skip()
		}
		if err != nil {
			return err
		}
	}

	if st.validData {
		p.index(st)
	}
	if len(st.curves) > 0 || st.header != nil {
		name := ""
		if st.header != nil {
			name = st.header.Value(welllog.PropName).String()
		}
		p.add(Info, loc, "Log %q found. %d curves.", name, len(st.curves))
	}

	return nil
}

func (p *pass) header(st *logCheck, key token.Token) error {
	raw, err := p.dec.Capture()
	if err != nil {
		return err
	}

	if string(raw) == "null" {
		return nil
	}
	h, err := welllog.ParseHeader(raw)
	if err != nil {
		p.add(Warning, p.at(key), "Header is not an object.")
		return nil
	}
	st.header = h

	for _, k := range welllog.WellKnownProperties {
		if !h.Has(k) {
			p.add(Warning, nil, "Property %q is undefined.", k)
		}
	}
	for _, k := range h.Keys() {
		if !welllog.IsWellKnown(k) {
			p.add(Warning, nil, "Unrecognized property %q.", k)
		}
	}

	if date, ok := h.Value(welllog.PropDate).AsString(); ok && date != "" {
		if _, err := isodate.Parse(date); err != nil {
			p.add(Warning, nil, "Invalid date entry %q.", date)
		}
	}

	return nil
}

func (p *pass) curves(st *logCheck) error {
	tok, err := p.dec.Next()
	if err != nil {
		return err
	}
	if tok.Kind == token.Null {
		return nil
	}
	if tok.Kind != token.BeginArray {
		p.add(Warning, p.at(tok), "Curve definitions are not an array.")
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
			if err := p.curve(st); err != nil {
				return err
			}
		default:
			p.add(Warning, p.at(tok), "Unrecognized event in curve definitions: %s.", tok)
			if err := p.skipIfOpened(tok); err != nil {
				return err
			}
		}
	}
}

func (p *pass) curve(st *logCheck) error {
	def := curveDef{valueType: format.TypeFloat, dims: 1}
	var quantity, unit string
	hasName, hasType := false, false

	var end token.Token
	for {
		key, err := p.dec.Next()
		if err != nil {
			return err
		}
		if key.Kind == token.EndObject {
			end = key
			break
		}

		if !isCurveKey(key.Text) {
			p.add(Warning, p.at(key), "Unrecognized curves element: %q. Ignored.", key.Text)
			if err := p.dec.Skip(); err != nil {
				return err
			}

			continue
		}

		tok, err := p.dec.Next()
		if err != nil {
			return err
		}
		if err := p.skipIfOpened(tok); err != nil {
			return err
		}

		switch key.Text {
		case "name":
			if tok.Kind.IsScalar() && tok.Kind != token.Null {
				def.name, hasName = textOf(tok), true
			}
		case "quantity":
			if tok.Kind == token.String {
				quantity = tok.Text
			}
		case "unit":
			if tok.Kind == token.String {
				unit = tok.Text
			}
		case "valueType":
			if tok.Kind == token.Null {
				continue
			}
			hasType = true
			vt, err := format.ParseValueType(textOf(tok))
			if err != nil {
				p.add(Warning, p.at(tok), "Unrecognized value type: %q. Float assumed.", textOf(tok))
				continue
			}
			def.valueType = vt
		case "dimensions":
			if tok.Kind == token.Null {
				continue
			}
			n, ok := intOf(tok)
			if !ok || n < 1 {
				p.add(Severe, p.at(tok), "Invalid number of dimensions: %s.", textOf(tok))
				continue
			}
			def.dims = n
		case "maxSize":
			if tok.Kind == token.Null {
				continue
			}
			if n, ok := intOf(tok); !ok || n < 0 {
				p.add(Warning, p.at(tok), "Invalid maxSize: %s.", textOf(tok))
			}
		}
	}

	loc := p.at(end)
	curveNo := len(st.curves)
	if !hasName {
		p.add(Severe, loc, "Curve name is missing for curve %d.", curveNo)
		def.name = "curve"
	}
	if !hasType {
		p.add(Warning, loc, "Curve valueType is missing. Float assumed.")
	}

	if curveNo == 0 {
		if def.dims > 1 {
			p.add(Severe, loc, "Invalid dimensions for index curve: %d.", def.dims)
		}
		if !def.valueType.IsNumeric() {
			p.add(Severe, loc, "Invalid valueType for index curve: %s.", def.valueType)
		}
	}

	if quantity != "" && !KnownQuantity(quantity) {
		p.add(Warning, loc, "Unrecognized quantity: %s.", quantity)
	}
	if unit != "" && !LegalUnit(quantity, unit) {
		if quantity != "" {
			p.add(Warning, loc, "Unrecognized unit for %q: %s.", quantity, unit)
		} else {
			p.add(Warning, loc, "Unrecognized unit: %q.", unit)
		}
	}

	st.curves = append(st.curves, def)

	return nil
}

func isCurveKey(key string) bool {
	switch key {
	case "name", "description", "quantity", "unit", "valueType", "dimensions", "maxSize":
		return true
	default:
		return false
	}
}

func (p *pass) data(st *logCheck) error {
	tok, err := p.dec.Next()
	if err != nil {
		return err
	}
	if tok.Kind == token.Null {
		return nil
	}
	if tok.Kind != token.BeginArray {
		p.add(Warning, p.at(tok), "Curve data is not an array.")
		return p.skipIfOpened(tok)
	}
	if st.hasData {
		p.add(Warning, p.at(tok), "Duplicate curve data. Ignored.")
		return p.skipOpened()
	}
	st.hasData = true

	if len(st.curves) == 0 {
		p.add(Warning, p.at(tok), "Curve data found before curve definitions. Not validated.")
		return p.skipOpened()
	}

	// counts holds, per row, how many values each curve dimension received.
	base := make([]int, len(st.curves))
	slots := 0
	for i, c := range st.curves {
		base[i] = slots
		slots += c.dims
	}
	counts := make([]int, slots)

	depth := p.dec.Depth()
	level, curveNo, dim := 1, 0, 0
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
				st.validData = true
				return nil
			case 1:
				for _, n := range counts {
					if n != 1 {
						return p.abortData(depth, tok, "Invalid number of data.")
					}
				}
				clear(counts)
				curveNo = 0
			default:
				curveNo++
			}

		case token.BeginObject, token.Name:
			p.add(Severe, p.at(tok), "Unrecognized event in curve data: %s.", tok.Kind)
			return errAbort

		default:
			if level == 1 {
				return p.abortData(depth, tok, "Curve data row is not an array.")
			}
			if curveNo >= len(st.curves) {
				return p.abortData(depth, tok, "Invalid number of data.")
			}
			c := &st.curves[curveNo]
			if dim >= c.dims {
				return p.abortData(depth, tok, "Invalid number of dimensions.")
			}

			v := valueOf(tok)
			typed := value.As(v, c.valueType)
			if curveNo == 0 && dim == 0 {
				if v.IsNull() {
					return p.abortData(depth, tok, "Index values cannot be null.")
				}
				if x := value.ToFloat64(typed); !math.IsNaN(x) {
					st.index.add(x)
				}
			}
			if !v.IsNull() && typed.IsNull() && tok.Text != "" && !c.badValue {
				c.badValue = true
				p.add(Warning, p.at(tok), "Invalid %s value for curve %q: %s.", c.valueType, c.name, textOf(tok))
			}

			counts[base[curveNo]+dim]++
			if level == 2 {
				curveNo++
			} else {
				dim++
			}
		}
	}
}

// abortData reports a Severe finding and skips the rest of the data array
// opened at depth.
func (p *pass) abortData(depth int, tok token.Token, text string) error {
	p.add(Severe, p.at(tok), "%s", text)
	for p.dec.Depth() >= depth {
		if _, err := p.dec.Next(); err != nil {
			return err
		}
	}

	return nil
}

// index compares the header's index properties with the values found in the
// data.
func (p *pass) index(st *logCheck) {
	h := st.header
	if h == nil {
		h = welllog.EmptyHeader()
	}
	vt := st.curves[0].valueType
	declared := func(key string) float64 {
		return value.ToFloat64(value.As(h.Value(key), vt))
	}
	render := func(x float64) string {
		if math.IsNaN(x) {
			return "null"
		}
		return value.FromFloat64(x, vt).String()
	}

	s := st.index
	actualStart, actualEnd := math.NaN(), math.NaN()
	if s.count > 0 {
		actualStart, actualEnd = s.start, s.end
	}
	p.compareIndex(welllog.PropStartIndex, declared(welllog.PropStartIndex), actualStart, render)
	p.compareIndex(welllog.PropEndIndex, declared(welllog.PropEndIndex), actualEnd, render)

	actualStep := math.NaN()
	if s.count > 1 {
		if s.minStep*s.maxStep <= 0 {
			p.add(Warning, nil, "Index is not continuous increasing or decreasing. min/max step = %s/%s.",
				formatStep(s.minStep), formatStep(s.maxStep))
		}
		actualStep = (s.minStep + s.maxStep) / 2
		if math.Abs(actualStep-s.minStep) > stepTolerance {
			actualStep = math.NaN()
		}
	}

	step := value.ToFloat64(h.Value(welllog.PropStep))
	switch {
	case math.IsNaN(step) && math.IsNaN(actualStep):
	case math.IsNaN(step):
		p.add(Warning, nil, "step is missing: %s.", formatStep(actualStep))
	case math.IsNaN(actualStep):
		p.add(Warning, nil, "step %s doesn't match actual: null.", formatStep(step))
	case math.Abs(actualStep-step) > stepTolerance:
		p.add(Warning, nil, "step %s doesn't match actual: %s.", formatStep(step), formatStep(actualStep))
	}
}

func (p *pass) compareIndex(key string, declared, actual float64, render func(float64) string) {
	switch {
	case math.IsNaN(declared) && math.IsNaN(actual):
	case math.IsNaN(declared):
		p.add(Warning, nil, "%s is missing: %s.", key, render(actual))
	case declared != actual:
		p.add(Warning, nil, "%s %s doesn't match actual: %s.", key, render(declared), render(actual))
	}
}

func formatStep(x float64) string {
	if math.IsNaN(x) {
		return "null"
	}

	return strconv.FormatFloat(x, 'g', -1, 64)
}

// skipIfOpened skips the rest of an array or object whose begin token was tok.
func (p *pass) skipIfOpened(tok token.Token) error {
	if tok.Kind == token.BeginArray || tok.Kind == token.BeginObject {
		return p.skipOpened()
	}

	return nil
}

// skipOpened consumes events up to the end of the innermost open container.
func (p *pass) skipOpened() error {
	depth := p.dec.Depth()
	for p.dec.Depth() >= depth {
		if _, err := p.dec.Next(); err != nil {
			return err
		}
	}

	return nil
}

func valueOf(tok token.Token) value.Value {
	switch tok.Kind {
	case token.Number:
		v, _ := value.ParseNumber(tok.Text)
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
	case token.Null:
		return "null"
	default:
		return tok.Kind.String()
	}
}

func intOf(tok token.Token) (int, bool) {
	if tok.Kind != token.Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}

	return int(f), true
}

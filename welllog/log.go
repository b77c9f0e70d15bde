// Package welllog implements the in-memory model of a well log: a header of
// metadata, an ordered list of curves and the tables embedded in the header.
//
// The first curve of a log is its index curve (depth or time); every other
// curve is sampled against it, so all curves hold the same number of rows.
//
// The header is an immutable snapshot replaced atomically on every property
// update, so a reader never observes a half-written header. Curve values are
// not synchronized: a log has a single writer at a time.
package welllog

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fastjson"

	"github.com/arloliu/jwlf/curve"
	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/internal/hash"
	"github.com/arloliu/jwlf/isodate"
	"github.com/arloliu/jwlf/value"
)

// Log is one well log.
type Log struct {
	header atomic.Pointer[Header]
	curves []*curve.Curve
}

// New creates an empty log.
func New() *Log {
	l := &Log{}
	l.header.Store(emptyHeader)

	return l
}

// Header returns the current header snapshot.
func (l *Log) Header() *Header {
	if h := l.header.Load(); h != nil {
		return h
	}

	return emptyHeader
}

// SetHeader replaces the header snapshot. A nil header clears all properties.
func (l *Log) SetHeader(h *Header) {
	if h == nil {
		h = emptyHeader
	}
	l.header.Store(h)
}

// SetProperty sets one header property. See Header.With for the accepted value kinds.
func (l *Log) SetProperty(key string, v any) error {
	return l.updateHeader(func(h *Header) (*Header, error) {
		return h.With(key, v)
	})
}

// RemoveProperty removes one header property.
func (l *Log) RemoveProperty(key string) {
	_ = l.updateHeader(func(h *Header) (*Header, error) {
		return h.Without(key), nil
	})
}

// updateHeader swaps in the snapshot derived from the current one, retrying
// if another update won the race.
func (l *Log) updateHeader(fn func(*Header) (*Header, error)) error {
	for {
		old := l.header.Load()
		base := old
		if base == nil {
			base = emptyHeader
		}
		updated, err := fn(base)
		if err != nil {
			return err
		}
		if l.header.CompareAndSwap(old, updated) {
			return nil
		}
	}
}

// Property returns the scalar value of a header property, or a no-value.
func (l *Log) Property(key string) value.Value {
	return l.Header().Value(key)
}

// PropertyKeys returns the header keys in document order.
func (l *Log) PropertyKeys() []string {
	return l.Header().Keys()
}

func (l *Log) stringProperty(key string) string {
	v := l.Property(key)
	if v.IsNull() {
		return ""
	}

	return v.String()
}

// Name returns the log name.
func (l *Log) Name() string { return l.stringProperty(PropName) }

// SetName sets the log name.
func (l *Log) SetName(name string) { l.mustSet(PropName, name) }

// Description returns the log description.
func (l *Log) Description() string { return l.stringProperty(PropDescription) }

// SetDescription sets the log description.
func (l *Log) SetDescription(description string) { l.mustSet(PropDescription, description) }

// Well returns the well name.
func (l *Log) Well() string { return l.stringProperty(PropWell) }

// SetWell sets the well name.
func (l *Log) SetWell(well string) { l.mustSet(PropWell, well) }

// Wellbore returns the wellbore name.
func (l *Log) Wellbore() string { return l.stringProperty(PropWellbore) }

// SetWellbore sets the wellbore name.
func (l *Log) SetWellbore(wellbore string) { l.mustSet(PropWellbore, wellbore) }

// Field returns the field name.
func (l *Log) Field() string { return l.stringProperty(PropField) }

// SetField sets the field name.
func (l *Log) SetField(field string) { l.mustSet(PropField, field) }

// Country returns the country.
func (l *Log) Country() string { return l.stringProperty(PropCountry) }

// SetCountry sets the country.
func (l *Log) SetCountry(country string) { l.mustSet(PropCountry, country) }

// Operator returns the operator company.
func (l *Log) Operator() string { return l.stringProperty(PropOperator) }

// SetOperator sets the operator company.
func (l *Log) SetOperator(operator string) { l.mustSet(PropOperator, operator) }

// ServiceCompany returns the logging service company.
func (l *Log) ServiceCompany() string { return l.stringProperty(PropServiceCompany) }

// SetServiceCompany sets the logging service company.
func (l *Log) SetServiceCompany(company string) { l.mustSet(PropServiceCompany, company) }

// RunNumber returns the run number.
func (l *Log) RunNumber() string { return l.stringProperty(PropRunNumber) }

// SetRunNumber sets the run number.
func (l *Log) SetRunNumber(runNumber string) { l.mustSet(PropRunNumber, runNumber) }

// Source returns the data source description.
func (l *Log) Source() string { return l.stringProperty(PropSource) }

// SetSource sets the data source description.
func (l *Log) SetSource(source string) { l.mustSet(PropSource, source) }

// DataURI returns the location of the binary data file, or "".
func (l *Log) DataURI() string { return l.stringProperty(PropDataURI) }

// SetDataURI sets the location of the binary data file; "" removes it.
func (l *Log) SetDataURI(uri string) {
	if uri == "" {
		l.RemoveProperty(PropDataURI)
		return
	}
	l.mustSet(PropDataURI, uri)
}

// Elevation returns the elevation, or NaN if absent.
func (l *Log) Elevation() float64 { return value.ToFloat64(l.Property(PropElevation)) }

// SetElevation sets the elevation.
func (l *Log) SetElevation(elevation float64) { l.mustSet(PropElevation, elevation) }

// Date returns the log date. The second result is false when the date is
// absent or not valid ISO-8601.
func (l *Log) Date() (time.Time, bool) {
	s, ok := l.Property(PropDate).AsString()
	if !ok {
		return time.Time{}, false
	}
	t, err := isodate.Parse(s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// SetDate sets the log date.
func (l *Log) SetDate(t time.Time) { l.mustSet(PropDate, t) }

// ExternalIDs returns the external identifiers keyed by system name.
func (l *Log) ExternalIDs() map[string]string {
	raw := l.Header().Raw(PropExternalIDs)
	if raw == nil {
		return nil
	}
	o, err := raw.Object()
	if err != nil {
		return nil
	}

	ids := make(map[string]string, o.Len())
	o.Visit(func(key []byte, v *fastjson.Value) {
		if s, ok := scalarOf(v).AsString(); ok {
			ids[string(key)] = s
		}
	})

	return ids
}

// SetExternalIDs sets the external identifiers.
func (l *Log) SetExternalIDs(ids map[string]string) { l.mustSet(PropExternalIDs, ids) }

// indexType returns the index curve value type, or float when there are no curves.
func (l *Log) indexType() format.ValueType {
	if len(l.curves) == 0 {
		return format.TypeFloat
	}

	return l.curves[0].ValueType()
}

// StartIndex returns the declared start index, typed as the index curve.
func (l *Log) StartIndex() value.Value {
	return value.As(l.Property(PropStartIndex), l.indexType())
}

// SetStartIndex sets the declared start index.
func (l *Log) SetStartIndex(v value.Value) { l.mustSet(PropStartIndex, v) }

// EndIndex returns the declared end index, typed as the index curve.
func (l *Log) EndIndex() value.Value {
	return value.As(l.Property(PropEndIndex), l.indexType())
}

// SetEndIndex sets the declared end index.
func (l *Log) SetEndIndex(v value.Value) { l.mustSet(PropEndIndex, v) }

// Step returns the declared step as a float, or a no-value for an
// irregular or undeclared step. Datetime indexes step in milliseconds.
func (l *Log) Step() value.Value {
	return value.As(l.Property(PropStep), format.TypeFloat)
}

// SetStep sets the declared step; a no-value marks the index as irregular.
func (l *Log) SetStep(v value.Value) { l.mustSet(PropStep, v) }

// mustSet stores properties of the kinds Header.With always accepts.
func (l *Log) mustSet(key string, v any) {
	if err := l.SetProperty(key, v); err != nil {
		panic(err)
	}
}

// Tables returns the tables embedded in the header, in document order.
func (l *Log) Tables() []*Table {
	var tables []*Table
	l.Header().Visit(func(key string, v *fastjson.Value) {
		if t, ok := tableFromJSON(key, v); ok {
			tables = append(tables, t)
		}
	})

	return tables
}

// Table returns the named table, or nil.
func (l *Log) Table(name string) *Table {
	t, ok := tableFromJSON(name, l.Header().Raw(name))
	if !ok {
		return nil
	}

	return t
}

// AddTable stores t in the header under its name, replacing any existing property.
func (l *Log) AddTable(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", errs.ErrInvalidTable)
	}

	return l.SetProperty(t.Name(), t)
}

// AddCurve appends a curve. The first curve added is the index curve.
func (l *Log) AddCurve(c *curve.Curve) error {
	if c == nil {
		return fmt.Errorf("%w: nil curve", errs.ErrInvalidCurve)
	}
	l.curves = append(l.curves, c)

	return nil
}

// SetCurves replaces all curves.
func (l *Log) SetCurves(curves []*curve.Curve) {
	l.curves = slices.Clone(curves)
}

// Curves returns the curves in order. The slice is a copy; the curves are shared.
func (l *Log) Curves() []*curve.Curve {
	return slices.Clone(l.curves)
}

// NCurves returns the number of curves.
func (l *Log) NCurves() int { return len(l.curves) }

// Curve returns the curve at index i.
func (l *Log) Curve(i int) (*curve.Curve, error) {
	if i < 0 || i >= len(l.curves) {
		return nil, fmt.Errorf("%w: index %d of %d curves", errs.ErrCurveNotFound, i, len(l.curves))
	}

	return l.curves[i], nil
}

// IndexCurve returns the first curve, or nil for a log without curves.
func (l *Log) IndexCurve() *curve.Curve {
	if len(l.curves) == 0 {
		return nil
	}

	return l.curves[0]
}

// FindCurve returns the first curve with the given name, or nil.
// Curve names are not required to be unique.
func (l *Log) FindCurve(name string) *curve.Curve {
	if i := l.FindCurveIndex(name); i >= 0 {
		return l.curves[i]
	}

	return nil
}

// FindCurveIndex returns the position of the first curve with the given name, or -1.
func (l *Log) FindCurveIndex(name string) int {
	return slices.IndexFunc(l.curves, func(c *curve.Curve) bool { return c.Name() == name })
}

// NValues returns the number of rows, taken from the index curve.
func (l *Log) NValues() int {
	if len(l.curves) == 0 {
		return 0
	}

	return l.curves[0].Len()
}

// ClearCurves removes all curve values while keeping the definitions.
func (l *Log) ClearCurves() {
	for _, c := range l.curves {
		c.Clear()
	}
}

// TrimCurves releases spare curve capacity.
func (l *Log) TrimCurves() {
	for _, c := range l.curves {
		c.Trim()
	}
}

// ActualStartIndex returns the first index value, or a no-value.
func (l *Log) ActualStartIndex() value.Value {
	if l.NValues() == 0 {
		return value.Null()
	}

	return l.curves[0].Value(0, 0)
}

// ActualEndIndex returns the last index value, or a no-value.
func (l *Log) ActualEndIndex() value.Value {
	n := l.NValues()
	if n == 0 {
		return value.Null()
	}

	return l.curves[0].Value(0, n-1)
}

// ActualStep returns the step computed from the index values, or a no-value
// when the index is irregular or has fewer than two values.
func (l *Log) ActualStep() value.Value {
	if l.NValues() < 2 {
		return value.Null()
	}
	step, ok := ComputeStep(l.curves[0].Floats(0))
	if !ok {
		return value.Null()
	}

	return value.Float(step)
}

// Clone returns a copy of the log sharing the immutable header snapshot.
// Curves are copied with or without their values.
func (l *Log) Clone(withValues bool) *Log {
	out := New()
	out.header.Store(l.Header())
	out.curves = make([]*curve.Curve, len(l.curves))
	for i, c := range l.curves {
		out.curves[i] = c.Clone(withValues)
	}

	return out
}

// Signature returns an xxHash64 over the definitions of all curves in order.
func (l *Log) Signature() uint64 {
	b := hash.NewBuilder().Int(len(l.curves))
	for _, c := range l.curves {
		b.Uint64(c.Signature())
	}

	return b.Sum()
}

func (l *Log) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d curves, %d values", l.Name(), len(l.curves), l.NValues())
	if step, ok := l.ActualStep().AsFloat(); ok {
		fmt.Fprintf(&sb, ", step %g", step)
	}
	for _, c := range l.curves {
		sb.WriteString("\n  ")
		sb.WriteString(c.String())
	}

	return sb.String()
}

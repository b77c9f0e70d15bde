package welllog

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/valyala/fastjson"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/format"
	"github.com/arloliu/jwlf/isodate"
	"github.com/arloliu/jwlf/value"
)

// Header is an immutable snapshot of a log header: an ordered JSON object
// whose values are scalars, arrays, nested objects or tables.
//
// Updates never modify a Header in place; With and Without return a new
// snapshot that shares the unchanged entries with the old one.
type Header struct {
	obj *fastjson.Value
}

var emptyHeader = &Header{}

// EmptyHeader returns a header with no properties.
func EmptyHeader() *Header { return emptyHeader }

// ParseHeader parses raw JSON text into a header. The text must be an object;
// a JSON null gives an empty header.
func ParseHeader(raw []byte) (*Header, error) {
	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", errs.ErrParse, err)
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return emptyHeader, nil
	case fastjson.TypeObject:
		settle(v)
		return &Header{obj: v}, nil
	default:
		return nil, fmt.Errorf("%w: header is a JSON %s, not an object", errs.ErrInvalidProperty, v.Type())
	}
}

func (h *Header) object() *fastjson.Object {
	if h == nil || h.obj == nil {
		return nil
	}
	o, _ := h.obj.Object()

	return o
}

// Len returns the number of properties.
func (h *Header) Len() int {
	if o := h.object(); o != nil {
		return o.Len()
	}

	return 0
}

// Keys returns the property keys in document order.
func (h *Header) Keys() []string {
	keys := make([]string, 0, h.Len())
	h.Visit(func(key string, _ *fastjson.Value) {
		keys = append(keys, key)
	})

	return keys
}

// Visit calls fn for every property in document order.
// The values must not be modified.
func (h *Header) Visit(fn func(key string, v *fastjson.Value)) {
	o := h.object()
	if o == nil {
		return
	}
	o.Visit(func(key []byte, v *fastjson.Value) {
		fn(string(key), v)
	})
}

// Has reports whether the header holds key, even with a null value.
func (h *Header) Has(key string) bool {
	return h.Raw(key) != nil
}

// Raw returns the JSON value of key, or nil if absent. It must not be modified.
func (h *Header) Raw(key string) *fastjson.Value {
	if o := h.object(); o != nil {
		return o.Get(key)
	}

	return nil
}

// Value returns the scalar value of key. Absent keys, nulls, arrays and
// objects give a no-value.
func (h *Header) Value(key string) value.Value {
	return scalarOf(h.Raw(key))
}

// With returns a copy of the header with key set to v.
// An existing key keeps its position; a new key is appended.
//
// v may be nil, a value.Value, string, bool, int, int64, float64, time.Time,
// map[string]string, []string, []float64, []value.Value, *Table or *fastjson.Value.
func (h *Header) With(key string, v any) (*Header, error) {
	a := &fastjson.Arena{}

	jv, err := toJSON(a, v)
	if err != nil {
		return nil, fmt.Errorf("%w: property %q: %w", errs.ErrInvalidProperty, key, err)
	}

	obj := a.NewObject()
	h.Visit(func(k string, old *fastjson.Value) {
		obj.Set(k, old)
	})
	obj.Set(key, jv)
	settle(obj)

	return &Header{obj: obj}, nil
}

// Without returns a copy of the header without key.
func (h *Header) Without(key string) *Header {
	if !h.Has(key) {
		return h
	}

	a := &fastjson.Arena{}
	obj := a.NewObject()
	h.Visit(func(k string, old *fastjson.Value) {
		if k != key {
			obj.Set(k, old)
		}
	})
	settle(obj)

	return &Header{obj: obj}
}

// MarshalJSON returns the compact JSON text of the header.
func (h *Header) MarshalJSON() ([]byte, error) {
	if h == nil || h.obj == nil {
		return []byte("{}"), nil
	}

	return h.obj.MarshalTo(nil), nil
}

func (h *Header) String() string {
	b, _ := h.MarshalJSON()
	return string(b)
}

// settle forces fastjson's lazy unescaping of keys and strings across the
// whole tree. fastjson rewrites values on first access, so a snapshot must be
// settled before it is shared between goroutines.
func settle(v *fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		o.Visit(func(_ []byte, child *fastjson.Value) {
			settle(child)
		})
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			settle(item)
		}
	}
}

// scalarOf converts a JSON scalar to a value; other kinds give a no-value.
func scalarOf(v *fastjson.Value) value.Value {
	if v == nil {
		return value.Null()
	}

	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return value.String(string(b))
	case fastjson.TypeNumber:
		n, err := value.ParseNumber(string(v.MarshalTo(nil)))
		if err != nil {
			return value.Null()
		}
		return n
	case fastjson.TypeTrue:
		return value.Bool(true)
	case fastjson.TypeFalse:
		return value.Bool(false)
	default:
		return value.Null()
	}
}

func toJSON(a *fastjson.Arena, v any) (*fastjson.Value, error) {
	switch x := v.(type) {
	case nil:
		return a.NewNull(), nil
	case *fastjson.Value:
		if x == nil {
			return a.NewNull(), nil
		}
		return x, nil
	case value.Value:
		return valueToJSON(a, x), nil
	case string:
		return a.NewString(x), nil
	case bool:
		return boolToJSON(a, x), nil
	case int:
		return a.NewNumberString(strconv.Itoa(x)), nil
	case int64:
		return a.NewNumberString(strconv.FormatInt(x, 10)), nil
	case float64:
		return valueToJSON(a, value.Float(x)), nil
	case time.Time:
		return valueToJSON(a, value.DateTime(x)), nil
	case map[string]string:
		obj := a.NewObject()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			obj.Set(k, a.NewString(x[k]))
		}
		return obj, nil
	case []string:
		arr := a.NewArray()
		for i, s := range x {
			arr.SetArrayItem(i, a.NewString(s))
		}
		return arr, nil
	case []float64:
		arr := a.NewArray()
		for i, f := range x {
			arr.SetArrayItem(i, valueToJSON(a, value.Float(f)))
		}
		return arr, nil
	case []value.Value:
		arr := a.NewArray()
		for i, e := range x {
			arr.SetArrayItem(i, valueToJSON(a, e))
		}
		return arr, nil
	case *Table:
		return x.toJSON(a), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func valueToJSON(a *fastjson.Arena, v value.Value) *fastjson.Value {
	typ, ok := v.Type()
	if !ok {
		return a.NewNull()
	}

	switch typ {
	case format.TypeFloat:
		f, _ := v.AsFloat()
		if math.IsInf(f, 0) {
			return a.NewNull()
		}
		return a.NewNumberString(strconv.FormatFloat(f, 'g', -1, 64))
	case format.TypeInteger:
		i, _ := v.AsInt()
		return a.NewNumberString(strconv.FormatInt(i, 10))
	case format.TypeBoolean:
		b, _ := v.AsBool()
		return boolToJSON(a, b)
	case format.TypeDateTime:
		t, _ := v.AsTime()
		return a.NewString(isodate.Format(t))
	default:
		s, _ := v.AsString()
		return a.NewString(s)
	}
}

func boolToJSON(a *fastjson.Arena, b bool) *fastjson.Value {
	if b {
		return a.NewTrue()
	}

	return a.NewFalse()
}

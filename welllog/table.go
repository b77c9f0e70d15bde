package welllog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/arloliu/jwlf/errs"
	"github.com/arloliu/jwlf/value"
)

// Table is tabular legacy metadata held in a header: a fixed list of
// attributes (columns) and an ordered list of named objects (rows). Each
// cell holds zero, one or many values.
//
// In JSON a table is an object with exactly the keys "attributes" and "objects":
//
//	"tools": {
//	  "attributes": ["serial", "length"],
//	  "objects": {
//	    "GR-1": ["A12", 3.2],
//	    "DEN-2": [["B1", "B2"], null]
//	  }
//	}
type Table struct {
	name       string
	attributes []string
	objects    []string
	cells      map[string][][]value.Value // object -> attribute -> values
}

// NewTable creates an empty table with the given attributes.
func NewTable(name string, attributes ...string) *Table {
	return &Table{
		name:       name,
		attributes: slices.Clone(attributes),
		cells:      make(map[string][][]value.Value),
	}
}

// Name returns the header key of the table.
func (t *Table) Name() string { return t.name }

// Attributes returns a copy of the attribute names.
func (t *Table) Attributes() []string { return slices.Clone(t.attributes) }

// Objects returns a copy of the object names in insertion order.
func (t *Table) Objects() []string { return slices.Clone(t.objects) }

// Contains reports whether the table has the named object.
func (t *Table) Contains(object string) bool {
	_, ok := t.cells[object]
	return ok
}

// AddObject adds an object with empty cells.
func (t *Table) AddObject(object string) error {
	if t.Contains(object) {
		return fmt.Errorf("%w: object %q already in table %q", errs.ErrInvalidTable, object, t.name)
	}

	t.objects = append(t.objects, object)
	t.cells[object] = make([][]value.Value, len(t.attributes))

	return nil
}

// AddValue appends v to the cell of object and attribute.
func (t *Table) AddValue(object, attribute string, v value.Value) error {
	cell, err := t.cell(object, attribute)
	if err != nil {
		return err
	}
	*cell = append(*cell, v)

	return nil
}

// Values returns a copy of the values of one cell.
func (t *Table) Values(object, attribute string) ([]value.Value, error) {
	cell, err := t.cell(object, attribute)
	if err != nil {
		return nil, err
	}

	return slices.Clone(*cell), nil
}

// Value returns the first value of one cell, or a no-value if the cell is empty.
func (t *Table) Value(object, attribute string) (value.Value, error) {
	cell, err := t.cell(object, attribute)
	if err != nil {
		return value.Null(), err
	}
	if len(*cell) == 0 {
		return value.Null(), nil
	}

	return (*cell)[0], nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.name, t.attributes...)
	out.objects = slices.Clone(t.objects)
	for object, row := range t.cells {
		copied := make([][]value.Value, len(row))
		for i, cell := range row {
			copied[i] = slices.Clone(cell)
		}
		out.cells[object] = copied
	}

	return out
}

func (t *Table) cell(object, attribute string) (*[]value.Value, error) {
	row, ok := t.cells[object]
	if !ok {
		return nil, fmt.Errorf("%w: unknown object %q in table %q", errs.ErrInvalidTable, object, t.name)
	}

	i := slices.Index(t.attributes, attribute)
	if i < 0 {
		return nil, fmt.Errorf("%w: unknown attribute %q in table %q", errs.ErrInvalidTable, attribute, t.name)
	}

	return &row[i], nil
}

// String renders the table as aligned plain text.
func (t *Table) String() string {
	widths := make([]int, len(t.attributes)+1)
	for _, object := range t.objects {
		widths[0] = max(widths[0], len(object))
	}
	for i, attribute := range t.attributes {
		widths[i+1] = max(widths[i+1], len(attribute))
		for _, row := range t.cells {
			for _, v := range row[i] {
				widths[i+1] = max(widths[i+1], len(cellText(v)))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(t.name)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "%-*s", widths[0], "")
	for i, attribute := range t.attributes {
		fmt.Fprintf(&sb, " %-*s", widths[i+1], attribute)
	}
	sb.WriteByte('\n')

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteByte('\n')

	for _, object := range t.objects {
		row := t.cells[object]
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(cell))
		}
		for line := range lines {
			name := ""
			if line == 0 {
				name = object
			}
			fmt.Fprintf(&sb, "%-*s", widths[0], name)
			for i, cell := range row {
				text := ""
				if line < len(cell) {
					text = cellText(cell[line])
				}
				fmt.Fprintf(&sb, " %-*s", widths[i+1], text)
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func cellText(v value.Value) string {
	if v.IsNull() {
		return "null"
	}

	return v.String()
}

// tableFromJSON recognizes a header value as a table. The objects member may
// be an object, or an array of single-key objects.
func tableFromJSON(name string, v *fastjson.Value) (*Table, bool) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, false
	}
	o, _ := v.Object()
	if o.Len() != 2 {
		return nil, false
	}

	attrsValue := o.Get("attributes")
	if attrsValue == nil {
		return nil, false
	}
	attrs, err := attrsValue.Array()
	if err != nil {
		return nil, false
	}
	attributes := make([]string, 0, len(attrs))
	for _, a := range attrs {
		b, err := a.StringBytes()
		if err != nil {
			return nil, false
		}
		attributes = append(attributes, string(b))
	}

	t := NewTable(name, attributes...)

	objects := o.Get("objects")
	if objects == nil {
		return nil, false
	}

	ok := true
	switch objects.Type() {
	case fastjson.TypeObject:
		obj, _ := objects.Object()
		obj.Visit(func(key []byte, row *fastjson.Value) {
			ok = ok && t.addRow(string(key), row)
		})
	case fastjson.TypeArray:
		items, _ := objects.Array()
		for _, item := range items {
			single, err := item.Object()
			if err != nil || single.Len() != 1 {
				return nil, false
			}
			single.Visit(func(key []byte, row *fastjson.Value) {
				ok = ok && t.addRow(string(key), row)
			})
		}
	default:
		return nil, false
	}

	if !ok {
		return nil, false
	}

	return t, true
}

func (t *Table) addRow(object string, row *fastjson.Value) bool {
	items, err := row.Array()
	if err != nil || len(items) != len(t.attributes) {
		return false
	}
	if t.AddObject(object) != nil {
		return false
	}

	for i, item := range items {
		cell := &t.cells[object][i]
		switch item.Type() {
		case fastjson.TypeArray:
			subs, _ := item.Array()
			for _, sub := range subs {
				if sub.Type() == fastjson.TypeObject || sub.Type() == fastjson.TypeArray {
					return false
				}
				*cell = append(*cell, scalarOf(sub))
			}
		case fastjson.TypeObject:
			return false
		case fastjson.TypeNull:
		default:
			*cell = append(*cell, scalarOf(item))
		}
	}

	return true
}

func (t *Table) toJSON(a *fastjson.Arena) *fastjson.Value {
	obj := a.NewObject()

	attrs := a.NewArray()
	for i, attribute := range t.attributes {
		attrs.SetArrayItem(i, a.NewString(attribute))
	}
	obj.Set("attributes", attrs)

	objects := a.NewObject()
	for _, object := range t.objects {
		row := a.NewArray()
		for i, cell := range t.cells[object] {
			switch len(cell) {
			case 0:
				row.SetArrayItem(i, a.NewNull())
			case 1:
				row.SetArrayItem(i, valueToJSON(a, cell[0]))
			default:
				multi := a.NewArray()
				for j, v := range cell {
					multi.SetArrayItem(j, valueToJSON(a, v))
				}
				row.SetArrayItem(i, multi)
			}
		}
		objects.Set(object, row)
	}
	obj.Set("objects", objects)

	return obj
}

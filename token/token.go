package token

import "fmt"

// Kind identifies the type of an event in the stream.
type Kind uint8

const (
	Invalid Kind = iota
	BeginArray
	EndArray
	BeginObject
	EndObject
	Name
	String
	Number
	True
	False
	Null
)

var kindNames = [...]string{
	Invalid:     "invalid",
	BeginArray:  "begin array",
	EndArray:    "end array",
	BeginObject: "begin object",
	EndObject:   "end object",
	Name:        "name",
	String:      "string",
	Number:      "number",
	True:        "true",
	False:       "false",
	Null:        "null",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar reports whether the kind is a string, number, boolean or null.
func (k Kind) IsScalar() bool {
	return k >= String && k <= Null
}

// Token is one event of the stream.
//
// Text holds the unescaped value for names and strings and the literal JSON
// text for numbers. It is empty for delimiters, booleans and null.
type Token struct {
	Kind   Kind
	Text   string
	Offset int64
}

func (t Token) String() string {
	switch t.Kind {
	case Name, String:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case Number:
		return "number " + t.Text
	default:
		return t.Kind.String()
	}
}

// Location is a position in the source document. Line and Column are 1-based;
// Column counts bytes.
type Location struct {
	Line   int
	Column int
	Offset int64
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", l.Line, l.Column, l.Offset)
}

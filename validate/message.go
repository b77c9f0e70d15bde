package validate

import (
	"fmt"

	"github.com/arloliu/jwlf/token"
)

// Level is the severity of a validation message.
type Level uint8

const (
	// Severe marks a violation that makes the document, or part of it, unusable.
	Severe Level = iota + 1
	// Warning marks a deviation a reader can recover from.
	Warning
	// Info marks a purely informational finding.
	Info
)

func (l Level) String() string {
	switch l {
	case Severe:
		return "SEVERE"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Message is a single validation finding.
type Message struct {
	Level Level
	Text  string
	// Location is nil for findings not tied to a single place, such as header
	// and index audits.
	Location *token.Location
}

func (m Message) String() string {
	if m.Location == nil {
		return m.Level.String() + ": " + m.Text
	}

	return fmt.Sprintf("%s: %s (%s)", m.Level, m.Text, m.Location)
}

// Count returns the number of messages at level.
func Count(msgs []Message, level Level) int {
	n := 0
	for _, m := range msgs {
		if m.Level == level {
			n++
		}
	}

	return n
}

// Package message defines the diagnostic problems reported by the view editor
// and the ordered log that holds them while a view is being edited.
package message

import "fmt"

// Type is the severity of a problem.
type Type string

// Severities, most severe first.
const (
	TypeError   Type = "ERROR"
	TypeWarning Type = "WARNING"
	TypeInfo    Type = "INFO"
)

// ParseType converts a case-sensitive severity name into a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeError, TypeWarning, TypeInfo:
		return t, nil
	default:
		return "", fmt.Errorf("unknown message type %q", s)
	}
}

// Problem is a catalog entry describing a known diagnostic condition.
type Problem struct {
	ID          string
	Type        Type
	Description string
}

// Built-in problems.
var (
	ERR0100 = Problem{
		ID:          "ERR0100",
		Type:        TypeError,
		Description: "There must be a virtualization selected in order to use this editor.",
	}
	ERR0110 = Problem{
		ID:          "ERR0110",
		Type:        TypeError,
		Description: "A view must have a name.",
	}
	ERR0200 = Problem{
		ID:          "ERR0200",
		Type:        TypeError,
		Description: "Preview query failed.",
	}
	WRN0100 = Problem{
		ID:          "WRN0100",
		Type:        TypeWarning,
		Description: "A view should have at least one source.",
	}
)

var catalog = map[string]Problem{
	ERR0100.ID: ERR0100,
	ERR0110.ID: ERR0110,
	ERR0200.ID: ERR0200,
	WRN0100.ID: WRN0100,
}

// Lookup returns the built-in problem with the given id.
func Lookup(id string) (Problem, bool) {
	p, ok := catalog[id]
	return p, ok
}

// Package event defines the notifications the view editor session broadcasts
// to its parts.
package event

import "fmt"

// Part identifies the editor part that emitted an event or should react to it.
type Part string

// Editor parts.
const (
	PartCanvas     Part = "CANVAS"
	PartEditor     Part = "EDITOR"
	PartHeader     Part = "HEADER"
	PartPreview    Part = "PREVIEW"
	PartProperties Part = "PROPERTIES"
	PartMessageLog Part = "MESSAGE_LOG"
)

// Parts lists every editor part.
var Parts = []Part{PartCanvas, PartEditor, PartHeader, PartPreview, PartProperties, PartMessageLog}

// Valid reports whether p is one of the known parts.
func (p Part) Valid() bool {
	for _, known := range Parts {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePart converts s into a Part, rejecting unknown values.
func ParsePart(s string) (Part, error) {
	if p := Part(s); p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown editor part %q", s)
}

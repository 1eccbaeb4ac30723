package message

import "fmt"

// Message is an instance of a Problem placed into the active log.
// Messages are never mutated once created.
type Message struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
	Context     string `json:"context,omitempty"`
}

// New creates a message for the given problem.
func New(p Problem) *Message {
	return &Message{ID: p.ID, Type: p.Type, Description: p.Description}
}

// NewWithContext creates a message for the given problem carrying extra detail,
// such as the error text of a failed preview.
func NewWithContext(p Problem, context string) *Message {
	m := New(p)
	m.Context = context
	return m
}

// IsError reports whether the message has error severity.
func (m *Message) IsError() bool { return m.Type == TypeError }

// IsWarning reports whether the message has warning severity.
func (m *Message) IsWarning() bool { return m.Type == TypeWarning }

// IsInfo reports whether the message has info severity.
func (m *Message) IsInfo() bool { return m.Type == TypeInfo }

// Normalized returns m with an unknown severity replaced by ERROR. The second
// result is false when a copy had to be made.
func (m *Message) Normalized() (*Message, bool) {
	if _, err := ParseType(string(m.Type)); err == nil {
		return m, true
	}
	cp := *m
	cp.Type = TypeError
	return &cp, false
}

func (m *Message) String() string {
	if m.Context != "" {
		return fmt.Sprintf("%s %s: %s (%s)", m.Type, m.ID, m.Description, m.Context)
	}
	return fmt.Sprintf("%s %s: %s", m.Type, m.ID, m.Description)
}

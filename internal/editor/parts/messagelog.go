package parts

import (
	"slices"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
)

// MessageLog lists the problems reported for the view.
type MessageLog struct {
	listener

	rows []*message.Message
}

// NewMessageLog creates a message log bound to session. Call Activate before use.
func NewMessageLog(session *editor.Session) *MessageLog {
	return &MessageLog{listener: listener{session: session}}
}

// ID implements Part.
func (m *MessageLog) ID() event.Part { return event.PartMessageLog }

// Activate copies the session log and subscribes to changes.
func (m *MessageLog) Activate() {
	m.rows = m.session.GetMessages()
	m.subscribe(m.handle)
}

func (m *MessageLog) handle(e event.Event) {
	switch p := e.Payload().(type) {
	case event.LogMessageAddedPayload:
		m.rows = append(m.rows, p.Message)
	case event.LogMessageDeletedPayload:
		m.rows = slices.DeleteFunc(m.rows, func(r *message.Message) bool {
			return r.ID == p.Message.ID
		})
	case event.LogMessagesClearedPayload:
		m.rows = m.rows[:0]
	}
}

// Rows returns a copy of the displayed messages.
func (m *MessageLog) Rows() []*message.Message { return slices.Clone(m.rows) }

// Len returns the number of displayed messages.
func (m *MessageLog) Len() int { return len(m.rows) }

// Delete removes the message with id from the session log.
func (m *MessageLog) Delete(id string) {
	m.session.DeleteMessage(id, event.PartMessageLog)
}

// Clear empties the session log.
func (m *MessageLog) Clear() {
	m.session.ClearMessages(event.PartMessageLog)
}

package message

// Log is an ordered sequence of active messages.
// Message ids are unique among the messages currently present; a deleted id may be reused.
type Log struct {
	messages []*Message
}

// Add appends m. It returns false, leaving the log unchanged, when m is nil
// or a message with the same id is already present. A message with an
// unknown severity is stored as an error.
func (l *Log) Add(m *Message) bool {
	if m == nil || l.Has(m.ID) {
		return false
	}
	m, _ = m.Normalized()
	l.messages = append(l.messages, m)
	return true
}

// Delete removes the message with the given id and returns it.
func (l *Log) Delete(id string) (*Message, bool) {
	for i, m := range l.messages {
		if m.ID == id {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return m, true
		}
	}
	return nil, false
}

// Clear removes all messages and returns how many were removed.
func (l *Log) Clear() int {
	n := len(l.messages)
	l.messages = nil
	return n
}

// Has reports whether a message with the given id is present.
func (l *Log) Has(id string) bool {
	for _, m := range l.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Messages returns a copy of the active messages in insertion order.
func (l *Log) Messages() []*Message {
	return append([]*Message(nil), l.messages...)
}

// Len returns the number of active messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Count returns the number of active messages with the given severity.
func (l *Log) Count(t Type) int {
	n := 0
	for _, m := range l.messages {
		if m.Type == t {
			n++
		}
	}
	return n
}

package event

import "fmt"

// Event is an immutable notification that session state changed.
// The zero value is not useful; construct events with New.
type Event struct {
	source  Part
	payload Payload
}

// New creates an event emitted by source. Every event carries a payload,
// so New panics when payload is nil.
func New(source Part, payload Payload) Event {
	if payload == nil {
		panic("event: nil payload")
	}
	return Event{source: source, payload: payload}
}

// Source returns the part that emitted the event.
func (e Event) Source() Part { return e.source }

// Type returns the event type, derived from the payload.
func (e Event) Type() Type { return e.payload.Type() }

// Payload returns the typed event data.
func (e Event) Payload() Payload { return e.payload }

// Args returns the payload as a positional list. It is never nil.
func (e Event) Args() []any { return e.payload.args() }

func (e Event) String() string {
	return fmt.Sprintf("type: %s, source: %s, arg count: %d", e.Type(), e.source, len(e.Args()))
}

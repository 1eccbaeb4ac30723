// Package parts contains the presentation state of each area of the view
// editor. Every part mirrors a slice of the editor session by listening to
// its events and writes back only through the session mutators.
package parts

import (
	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
)

// listener holds the subscription shared by all parts.
type listener struct {
	session *editor.Session
	sub     *editor.Subscription
}

func (l *listener) subscribe(h editor.Handler) {
	if l.sub.Active() {
		return
	}
	l.sub = l.session.Subscribe(h)
}

// Deactivate stops the part from receiving session events.
func (l *listener) Deactivate() {
	l.sub.Unsubscribe()
}

// Active reports whether the part is subscribed to the session.
func (l *listener) Active() bool {
	return l.sub.Active()
}

// Part is the lifecycle shared by every editor part.
type Part interface {
	ID() event.Part
	Activate()
	Deactivate()
	Active() bool
}

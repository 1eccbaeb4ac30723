package editor

import "github.com/leapstack-labs/leapview/internal/editor/event"

// Handler receives events fired by a Session.
type Handler func(event.Event)

type subscriber struct {
	id      uint64
	handler Handler
	active  bool
}

// Subscription is the handle returned by Session.Subscribe.
// Parts must call Unsubscribe when they are deactivated.
type Subscription struct {
	session *Session
	sub     *subscriber
}

// Unsubscribe stops delivery to the handler. It is safe to call more than once.
// A handler unsubscribed while an event is being delivered is not invoked for
// the rest of that delivery.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.sub == nil || !s.sub.active {
		return
	}
	s.sub.active = false
	s.session.removeSubscriber(s.sub.id)
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && s.sub != nil && s.sub.active
}

// Subscribe registers h to receive every event fired after this call.
// Events fired earlier are not replayed.
func (s *Session) Subscribe(h Handler) *Subscription {
	s.nextSubID++
	sub := &subscriber{id: s.nextSubID, handler: h, active: true}
	s.subscribers = append(s.subscribers, sub)
	return &Subscription{session: s, sub: sub}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Session) SubscriberCount() int {
	return len(s.subscribers)
}

func (s *Session) removeSubscriber(id uint64) {
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// fire delivers e synchronously to every current subscriber in subscription order.
func (s *Session) fire(e event.Event) {
	s.logger.Debug("firing event", "event", e.String())

	// Subscribers added during delivery start with the next event.
	snapshot := append([]*subscriber(nil), s.subscribers...)
	for _, sub := range snapshot {
		if sub.active {
			sub.handler(e)
		}
	}
}

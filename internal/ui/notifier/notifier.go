// Package notifier fans out update pings to SSE streams, grouped by topic.
package notifier

import "sync"

// TopicDefinitions is pinged when the stored virtualizations change.
const TopicDefinitions = "definitions"

// Notifier sends update pings to the listeners of a topic. Listeners
// receive an empty struct and should re-render from current state.
type Notifier struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		topics: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings published to topic.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	listeners, ok := n.topics[topic]
	if !ok {
		listeners = make(map[chan struct{}]struct{})
		n.topics[topic] = listeners
	}
	listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Unknown or already
// removed channels are ignored.
func (n *Notifier) Unsubscribe(topic string, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	listeners, ok := n.topics[topic]
	if !ok {
		return
	}
	if _, ok := listeners[ch]; !ok {
		return
	}
	delete(listeners, ch)
	if len(listeners) == 0 {
		delete(n.topics, topic)
	}
	close(ch)
}

// Publish pings every listener of topic.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Publish(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.topics[topic] {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, the pending ping covers this one
		}
	}
}

// Broadcast pings every listener of every topic.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, listeners := range n.topics {
		for ch := range listeners {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Listeners returns the number of listeners subscribed to topic.
func (n *Notifier) Listeners(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.topics[topic])
}

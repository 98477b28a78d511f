package pawmart

import (
	"sync"
)

// EventAddressSelectedAdoption carries an *Address picked from the address
// book into an adoption application form.
const EventAddressSelectedAdoption = "address-selected-adoption"

// EventBus is a small in-process pub/sub used to hand values between
// otherwise unconnected parts of a consuming application.
type EventBus struct {
	mu   sync.Mutex
	subs map[string][]chan interface{}
}

// NewEventBus creates an event bus
func NewEventBus() *EventBus {
	return &EventBus{subs: map[string][]chan interface{}{}}
}

// Subscribe returns a channel receiving payloads published to topic, and a
// cancel function that unsubscribes and closes the channel.
func (b *EventBus) Subscribe(topic string) (<-chan interface{}, func()) {
	ch := make(chan interface{}, 8)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, sub := range subs {
			if sub == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}

	return ch, cancel
}

// Publish delivers payload to all current subscribers of topic. A subscriber
// that has fallen behind its buffer is skipped rather than blocking the
// publisher.
func (b *EventBus) Publish(topic string, payload interface{}) {
	b.mu.Lock()
	subs := make([]chan interface{}, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- payload:
		default:
		}
	}
}

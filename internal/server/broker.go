package server

import (
	"encoding/json"
	"sync"
)

// EventType names an outward event.
type EventType string

const (
	EventState  EventType = "state"
	EventTick   EventType = "tick"
	EventCue    EventType = "cue"
	EventResult EventType = "result"
	EventError  EventType = "error"
)

// Event is the envelope written to websocket clients, SSE streams and
// relays.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Message is an encoded Event as it travels through the Broker.
type Message struct {
	Type    EventType
	Payload []byte
}

func encodeEvent(t EventType, data any) (Message, error) {
	payload, err := json.Marshal(Event{Type: t, Data: data})
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: payload}, nil
}

const subscriberBuffer = 64

// Broker is an in-process pub/sub fanning every event out to all
// connected viewers.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Message]struct{})}
}

// Subscribe returns a channel receiving every published message.
func (b *Broker) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish never blocks; a subscriber whose buffer is full misses the
// message.
func (b *Broker) Publish(msg Message) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	b.mu.RUnlock()
}

// Len reports the number of subscribers.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

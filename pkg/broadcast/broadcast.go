// Package broadcast provides a process-wide, best-effort publish/subscribe
// hub for live clients.
//
// Delivery is fan-out to currently connected subscribers only: there is no
// persistence, no replay, and no acknowledgement. Late subscribers miss prior
// events. A slow subscriber whose buffer is full has the event dropped rather
// than delaying delivery to the others.
package broadcast

import (
	"sync"

	"go.uber.org/zap"
)

// Event is a named payload delivered to subscribers.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Subscriber receives events from a Hub until Close is called.
type Subscriber struct {
	hub *Hub
	ch  chan Event

	once sync.Once
}

// Events returns the subscriber's event channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscriber from the hub. It is safe to call more than
// once. Pending buffered events are discarded.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is the process-wide broadcaster. Construct one at startup with NewHub
// and inject it wherever events are published.
type Hub struct {
	lg     *zap.Logger
	buffer int

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates a Hub. buffer is the per-subscriber channel capacity; when a
// subscriber's buffer is full, events addressed to it are dropped.
func NewHub(lg *zap.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		lg:     lg,
		buffer: buffer,
		subs:   make(map[*Subscriber]struct{}),
	}
}

// Subscribe attaches a new subscriber. The caller must Close it when done.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{
		hub: h,
		ch:  make(chan Event, h.buffer),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish delivers the event to every current subscriber. Publishing with
// zero subscribers succeeds and delivers to nobody.
func (h *Hub) Publish(name string, payload any) {
	ev := Event{Name: name, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			h.lg.Warn("event dropped for slow subscriber", zap.String("event", name))
		}
	}
}

// Subscribers returns the number of currently attached subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

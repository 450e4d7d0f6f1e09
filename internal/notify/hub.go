package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/badgerspace/backend/internal/model"
)

// Subscription is a cancellable handle on one topic subscription.
type Subscription struct {
	topic  string
	fn     func(Event)
	hub    *Hub
	once   sync.Once
	active atomic.Bool
}

// Unsubscribe stops further deliveries. Safe to call more than once; events
// already in flight on the dispatch goroutine may still arrive.
func (s *Subscription) Unsubscribe() {
	s.active.Store(false)
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is the in-process notifier. A single dispatch goroutine drains the
// event queue so subscribers on one topic observe events in publish order.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]bool
	events chan Event
	closed bool
	done   chan struct{}
}

// NewHub creates a Hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		topics: make(map[string]map[*Subscription]bool),
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for ev := range h.events {
		h.mu.RLock()
		subs := make([]*Subscription, 0, len(h.topics[ev.Topic]))
		for s := range h.topics[ev.Topic] {
			subs = append(subs, s)
		}
		h.mu.RUnlock()
		for _, s := range subs {
			if s.active.Load() {
				s.fn(ev)
			}
		}
	}
}

// Subscribe registers fn for events on topic and returns the handle.
func (h *Hub) Subscribe(topic string, fn func(Event)) *Subscription {
	s := &Subscription{topic: topic, fn: fn, hub: h}
	s.active.Store(true)
	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Subscription]bool)
	}
	h.topics[topic][s] = true
	h.mu.Unlock()
	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	if m := h.topics[s.topic]; m != nil {
		delete(m, s)
		if len(m) == 0 {
			delete(h.topics, s.topic)
		}
	}
	h.mu.Unlock()
}

// Publish enqueues an event for dispatch. The caller returns before
// subscribers run; subscribers never observe their own publish synchronously.
func (h *Hub) Publish(_ context.Context, topic string, message *model.Message) error {
	// The read lock is held across the send so Close cannot close the
	// channel underneath an in-progress Publish.
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}
	h.events <- Event{Topic: topic, Message: message}
	return nil
}

// Close stops the dispatch loop after draining queued events.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()
	close(h.events)
	<-h.done
}

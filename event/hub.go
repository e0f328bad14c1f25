package event

import (
	"context"
	"sync"
	"time"
)

// Subscriber receives events from a Hub on a buffered channel.
type Subscriber struct {
	ch     chan Event
	closed bool
	mu     sync.RWMutex
}

// Events returns the channel events arrive on. The channel is closed
// when the subscriber or the hub is closed.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close stops delivery to this subscriber. Safe to call repeatedly.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

func (s *Subscriber) send(e Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- e:
		return true
	default:
		return false
	}
}

// Hub fans events out to subscribers. Publishing never blocks: when a
// subscriber's buffer is full the event is dropped for that subscriber
// and it is detached. All methods are safe for concurrent use.
type Hub struct {
	mu         sync.RWMutex
	subs       map[*Subscriber]struct{}
	bufferSize int
	closed     bool
	cleanupWg  sync.WaitGroup
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events.
// A minimum buffer of 1 is enforced so sends stay non-blocking.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subs:       make(map[*Subscriber]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

// Subscribe registers a new subscriber. The subscription is removed when
// the context is cancelled. A closed hub hands out already-closed
// subscribers.
func (h *Hub) Subscribe(ctx context.Context) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{ch: make(chan Event, h.bufferSize)}
	if h.closed {
		sub.Close()
		return sub
	}
	h.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			<-ctx.Done()
			h.unsubscribe(sub)
		}()
	}

	return sub
}

// Publish delivers the event to all subscribers, stamping OccurredAt if
// unset. Slow subscribers are dropped rather than blocking the caller.
func (h *Hub) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for sub := range h.subs {
		if !sub.send(e) {
			go h.unsubscribe(sub)
		}
	}
}

// Close shuts down the hub and all subscribers. Safe to call repeatedly.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for sub := range h.subs {
		sub.Close()
	}
	clear(h.subs)
	h.mu.Unlock()

	h.cleanupWg.Wait()
}

func (h *Hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, sub)
	sub.Close()
}

// Package events fans chart changes out to websocket subscribers of a dataset.
package events

import (
	"sync"
	"time"
)

// Event types
const (
	ChartCreated   = "chart.created"
	ChartUpdated   = "chart.updated"
	ChartDeleted   = "chart.deleted"
	DatasetDeleted = "dataset.deleted"
)

type Event struct {
	Type      string    `json:"type"`
	DatasetID string    `json:"datasetId"`
	ChartID   string    `json:"chartId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is what services need to announce changes.
type Publisher interface {
	Publish(e Event)
}

// Hub keeps one buffered channel per subscriber, grouped by dataset.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
}

type subscriber struct {
	ch     chan Event
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{}), buffer: 16}
}

// Subscribe registers for events of datasetID. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(datasetID string) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	set, ok := h.subs[datasetID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[datasetID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s.closed {
			return
		}
		s.closed = true
		delete(h.subs[datasetID], s)
		if len(h.subs[datasetID]) == 0 {
			delete(h.subs, datasetID)
		}
		close(s.ch)
	}
	return s.ch, cancel
}

// Publish delivers e to every subscriber of its dataset. Slow subscribers
// whose buffer is full miss the event.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[e.DatasetID] {
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Subscribers reports how many subscribers watch datasetID.
func (h *Hub) Subscribers(datasetID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[datasetID])
}

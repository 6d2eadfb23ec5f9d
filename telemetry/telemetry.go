// Package telemetry fans compile and search events out to registered
// subscribers. The subscriber list is the only shared, cross-call state in
// the library; it is guarded by a single coarse lock, and the compiler
// itself never touches it.
package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an event.
type Kind string

const (
	KindCompile Kind = "compile"
	KindSearch  Kind = "search"
)

// Event is one observed compile or search.
type Event struct {
	ID       uuid.UUID
	Time     time.Time
	Kind     Kind
	Input    string // the clause or statement text
	Compiled string // the engine query string, when compilation succeeded
	Err      error
}

// Hub holds the subscriber list.
type Hub struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

// NewHub returns an empty hub.
func NewHub() *Hub { return &Hub{subs: make(map[int]func(Event))} }

// Subscribe registers fn and returns an unsubscribe func. fn is invoked
// synchronously from Publish, so it must not block.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish stamps the event with an ID and time, then delivers it to every
// subscriber under the lock.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	ev.ID = uuid.New()
	ev.Time = time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fn := range h.subs {
		fn(ev)
	}
}

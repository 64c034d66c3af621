// Package coretest provides an in-memory core.Emitter for tests.
package coretest

import (
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type Delivery struct {
	To    domain.ConnID
	Event core.Event
}

// Recorder records every emitted event in order. Connections listed in
// Offline fail with core.ErrConnUnknown.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	offline    map[domain.ConnID]bool
}

func NewRecorder() *Recorder {
	return &Recorder{offline: make(map[domain.ConnID]bool)}
}

func (r *Recorder) Emit(to domain.ConnID, ev core.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.offline[to] {
		return core.ErrConnUnknown
	}
	r.deliveries = append(r.deliveries, Delivery{To: to, Event: ev})
	return nil
}

func (r *Recorder) SetOffline(conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline[conn] = true
}

func (r *Recorder) All() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// To returns the events delivered to conn, in order.
func (r *Recorder) To(conn domain.ConnID) []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Event
	for _, d := range r.deliveries {
		if d.To == conn {
			out = append(out, d.Event)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}

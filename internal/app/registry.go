package app

import (
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry is the connection index: at most one participant per connection.
// It mirrors RoomStore membership and is kept in step by the orchestrator.
type Registry struct {
	mu       sync.RWMutex
	bindings map[domain.ConnID]domain.Participant
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[domain.ConnID]domain.Participant),
	}
}

func (r *Registry) Register(conn domain.ConnID, p domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[conn]; ok {
		return domain.ErrDuplicateConnection
	}
	r.bindings[conn] = p
	log.Debug().Str("module", "app.registry").Str("conn", string(conn)).Str("room", string(p.RoomID)).Msg("bound participant")
	return nil
}

func (r *Registry) Lookup(conn domain.ConnID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bindings[conn]
	return p, ok
}

func (r *Registry) Unregister(conn domain.ConnID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bindings[conn]
	if ok {
		delete(r.bindings, conn)
		log.Debug().Str("module", "app.registry").Str("conn", string(conn)).Msg("unbound participant")
	}
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

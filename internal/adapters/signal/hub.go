package signal

import (
	"errors"
	"sync"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Hub maps connection ids to live transports and implements core.Emitter.
type Hub struct {
	mu     sync.RWMutex
	conns  map[domain.ConnID]core.SignalConnection
	policy app.Policy
}

func NewHub(policy app.Policy) *Hub {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.Disconnect}
	}
	return &Hub{
		conns:  make(map[domain.ConnID]core.SignalConnection),
		policy: policy,
	}
}

func (h *Hub) Attach(id domain.ConnID, c core.SignalConnection) {
	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()
}

func (h *Hub) Detach(id domain.ConnID) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Emit encodes ev and queues it without blocking. A full queue is handled by
// the backpressure policy.
func (h *Hub) Emit(to domain.ConnID, ev core.Event) error {
	h.mu.RLock()
	c, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		return core.ErrConnUnknown
	}

	frame, err := Encode(ev)
	if err != nil {
		return err
	}
	err = c.TrySend(frame)
	if errors.Is(err, core.ErrBackpressure) {
		action := h.policy.OnBackPressure(to)
		log.Warn().Str("module", "signal").Str("conn", string(to)).Str("event", string(ev.Type())).
			Stringer("action", action).Msg("send buffer full")
		if action == app.Disconnect {
			c.Close()
		}
	}
	return err
}

package app

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Outcome of a fire-and-forget relay. Dropped always means the target was
// unavailable at relay time; it is never reported to the sender.
type Outcome int

const (
	Delivered Outcome = iota
	Dropped
)

func (o Outcome) String() string {
	if o == Delivered {
		return "delivered"
	}
	return "dropped"
}

const (
	relayInit   = "init"
	relaySignal = "signal"
	relayChat   = "chat"
)

// Relay forwards handshake and chat messages between two participants of the
// same room. It only reads the Registry.
type Relay struct {
	Registry *Registry
	Emitter  core.Emitter
	Metrics  *metrics.Metrics
}

// Init forwards the prepare acknowledgement to the new peer, tagged with the
// sender so the receiver can match it to its peer connection.
func (r *Relay) Init(from, to domain.ConnID) Outcome {
	if _, _, ok := r.route(relayInit, from, to); !ok {
		return r.done(relayInit, Dropped)
	}
	return r.deliver(relayInit, to, core.ConnInit{TargetConnectionID: from})
}

// Signal forwards an opaque SDP or ICE payload without looking into it.
func (r *Relay) Signal(from, to domain.ConnID, payload json.RawMessage) Outcome {
	if _, _, ok := r.route(relaySignal, from, to); !ok {
		return r.done(relaySignal, Dropped)
	}
	return r.deliver(relaySignal, to, core.ConnSignal{TargetConnectionID: from, Payload: payload})
}

// DirectMessage sends content to one peer and, once the peer got it, echoes
// it back to the author with IsAuthor set.
func (r *Relay) DirectMessage(from, to domain.ConnID, content string) Outcome {
	sender, _, ok := r.route(relayChat, from, to)
	if !ok {
		return r.done(relayChat, Dropped)
	}
	msg := core.DirectMessage{
		AuthorConnectionID:   from,
		ReceiverConnectionID: to,
		DisplayName:          sender.DisplayName,
		Content:              content,
	}
	if out := r.deliver(relayChat, to, msg); out == Dropped {
		return out
	}
	msg.IsAuthor = true
	if err := r.Emitter.Emit(from, msg); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("conn", string(from)).Msg("author echo not delivered")
	}
	return Delivered
}

// route resolves both ends. The target must be bound to the sender's room.
func (r *Relay) route(kind string, from, to domain.ConnID) (sender, target domain.Participant, ok bool) {
	sender, ok = r.Registry.Lookup(from)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("kind", kind).Str("from", string(from)).Msg("sender not in a room, dropping")
		return sender, target, false
	}
	target, ok = r.Registry.Lookup(to)
	if !ok || from == to || target.RoomID != sender.RoomID {
		log.Debug().Err(domain.ErrTargetUnavailable).Str("module", "app.relay").Str("kind", kind).
			Str("from", string(from)).Str("to", string(to)).Msg("dropping")
		return sender, target, false
	}
	return sender, target, true
}

func (r *Relay) deliver(kind string, to domain.ConnID, ev core.Event) Outcome {
	if err := r.Emitter.Emit(to, ev); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("kind", kind).Str("to", string(to)).Msg("emit failed, dropping")
		return r.done(kind, Dropped)
	}
	return r.done(kind, Delivered)
}

func (r *Relay) done(kind string, o Outcome) Outcome {
	r.Metrics.ObserveRelay(kind, o.String())
	return o
}

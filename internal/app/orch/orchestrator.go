// Package orch drives the per-connection room state machine
// (Unbound -> Bound(room) -> Unbound) over the RoomStore and Registry.
package orch

import (
	"errors"
	"sync"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	opCreate     = "create"
	opJoin       = "join"
	opLeave      = "leave"
	opDisconnect = "disconnect"
)

// Orchestrator is the only writer of Rooms and Registry. Every membership
// change runs under mu together with the events it causes, so no reader sees
// a member in one view and not the other, and recipients get events in
// mutation order.
type Orchestrator struct {
	mu sync.Mutex

	Registry *app.Registry
	Rooms    *app.RoomStore
	Emitter  core.Emitter
	Metrics  *metrics.Metrics

	// MaxDisplayName bounds participant names; <= 0 uses the domain default.
	MaxDisplayName int
}

// RoomExists is the read-only query behind the HTTP existence check.
func (o *Orchestrator) RoomExists(id domain.RoomID) domain.Existence {
	return o.Rooms.RoomExists(id)
}

func (o *Orchestrator) ListRooms() []domain.Room {
	return o.Rooms.List()
}

// Whereabouts reports the participant bound to conn, if any.
func (o *Orchestrator) Whereabouts(conn domain.ConnID) (domain.Participant, bool) {
	return o.Registry.Lookup(conn)
}

func (o *Orchestrator) emit(to domain.ConnID, ev core.Event) {
	if err := o.Emitter.Emit(to, ev); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("conn", string(to)).Str("event", string(ev.Type())).Msg("emit failed")
	}
}

// emitRoster sends the post-mutation roster to every current member.
func (o *Orchestrator) emitRoster(room domain.Room) {
	update := core.RoomUpdate{Participants: core.Roster(room.Participants)}
	for _, p := range room.Participants {
		o.emit(p.ConnID, update)
	}
}

func (o *Orchestrator) observe(op string, err error) {
	o.Metrics.ObserveLifecycle(op, ErrorCode(err))
	o.Metrics.SetOccupancy(o.Rooms.Counts())
}

// ErrorCode maps a lifecycle error to the code reported to clients and used
// as a metrics label.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, domain.ErrDisplayNameEmpty), errors.Is(err, domain.ErrDisplayNameTooLong):
		return "invalid_display_name"
	default:
		return "error"
	}
}

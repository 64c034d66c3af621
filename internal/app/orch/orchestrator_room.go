package orch

import (
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Create opens a new room with conn as its only participant. The requester
// gets the room id followed by its own single-member roster.
func (o *Orchestrator) Create(conn domain.ConnID, displayName string, audioOnly bool) (id domain.RoomID, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() { o.observe(opCreate, err) }()

	if _, bound := o.Registry.Lookup(conn); bound {
		return "", domain.ErrAlreadyInRoom
	}
	p, err := domain.NewParticipant(conn, displayName, "", audioOnly, o.MaxDisplayName)
	if err != nil {
		return "", err
	}

	room := o.Rooms.CreateRoom(*p)
	if err := o.Registry.Register(conn, room.Participants[0]); err != nil {
		o.Rooms.RemoveParticipant(room.ID, conn)
		return "", fmt.Errorf("create room: %w", err)
	}
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room.ID)).Msg("room created")

	o.emit(conn, core.RoomIDAssigned{RoomID: room.ID})
	o.emit(conn, core.RoomUpdate{Participants: core.Roster(room.Participants)})
	return room.ID, nil
}

// Join admits conn to an existing room. Prior occupants are told to prepare
// for the newcomer before everyone, newcomer included, gets the new roster.
// Rejections leave every piece of state untouched and emit nothing.
func (o *Orchestrator) Join(conn domain.ConnID, id domain.RoomID, displayName string, audioOnly bool) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() { o.observe(opJoin, err) }()

	if _, bound := o.Registry.Lookup(conn); bound {
		return domain.ErrAlreadyInRoom
	}
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.Occupancy() >= o.Rooms.MaxParticipants() {
		return domain.ErrRoomFull
	}
	p, err := domain.NewParticipant(conn, displayName, id, audioOnly, o.MaxDisplayName)
	if err != nil {
		return err
	}

	room, err = o.Rooms.AddParticipant(id, *p)
	if err != nil {
		return err
	}
	if err := o.Registry.Register(conn, *p); err != nil {
		o.Rooms.RemoveParticipant(id, conn)
		return fmt.Errorf("join room: %w", err)
	}
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(id)).Int("occupancy", room.Occupancy()).Msg("joined room")

	for _, peer := range room.Participants {
		if peer.ConnID != conn {
			o.emit(peer.ConnID, core.PeerPrepare{TargetConnectionID: conn})
		}
	}
	o.emitRoster(room)
	return nil
}

// Leave is the explicit client request: the connection stays open and
// returns to Unbound. Reports whether conn was bound.
func (o *Orchestrator) Leave(conn domain.ConnID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	left := o.evict(conn)
	if left {
		o.observe(opLeave, nil)
	}
	return left
}

// Disconnect handles transport-level connection loss. It is idempotent:
// an unbound connection is a no-op with no events.
func (o *Orchestrator) Disconnect(conn domain.ConnID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	gone := o.evict(conn)
	if gone {
		o.observe(opDisconnect, nil)
	}
	return gone
}

// evict removes conn from its room and the registry. Remaining members learn
// who left and then get the new roster; an emptied room is dropped silently.
func (o *Orchestrator) evict(conn domain.ConnID) bool {
	p, ok := o.Registry.Lookup(conn)
	if !ok {
		return false
	}
	room, _, closed := o.Rooms.RemoveParticipant(p.RoomID, conn)
	o.Registry.Unregister(conn)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(p.RoomID)).Bool("room_closed", closed).Msg("left room")

	if closed {
		return true
	}
	for _, peer := range room.Participants {
		o.emit(peer.ConnID, core.PeerDisconnected{TargetConnectionID: conn})
	}
	o.emitRoster(room)
	return true
}

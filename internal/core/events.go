package core

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/samber/lo"
)

type EventType string

// Inbound events.
const (
	EventCreateRoom EventType = "create-room"
	EventJoinRoom   EventType = "join-room"
	EventLeaveRoom  EventType = "leave-room"
	EventWhoAmI     EventType = "whoami"
	EventPing       EventType = "ping"
)

// Outbound events.
const (
	EventConnected        EventType = "connected"
	EventRoomID           EventType = "room-id"
	EventRoomUpdate       EventType = "room-update"
	EventPeerPrepare      EventType = "peer-prepare"
	EventPeerDisconnected EventType = "peer-disconnected"
	EventLeft             EventType = "left"
	EventPong             EventType = "pong"
	EventError            EventType = "error"
)

// Relayed in both directions.
const (
	EventConnInit      EventType = "conn-init"
	EventConnSignal    EventType = "conn-signal"
	EventDirectMessage EventType = "direct-message"
)

// Event is anything the server sends to a connection. Fields are encoded
// next to "type" in a flat JSON object.
type Event interface {
	Type() EventType
}

// ParticipantDTO is the roster view of a participant (no transport fields).
type ParticipantDTO struct {
	ParticipantID domain.ParticipantID `json:"participantId"`
	ConnectionID  domain.ConnID        `json:"connectionId"`
	DisplayName   string               `json:"displayName"`
	RoomID        domain.RoomID        `json:"roomId"`
	AudioOnly     bool                 `json:"audioOnly"`
}

// Roster projects participants in join order.
func Roster(ps []domain.Participant) []ParticipantDTO {
	return lo.Map(ps, func(p domain.Participant, _ int) ParticipantDTO {
		return ParticipantDTO{
			ParticipantID: p.ID,
			ConnectionID:  p.ConnID,
			DisplayName:   p.DisplayName,
			RoomID:        p.RoomID,
			AudioOnly:     p.AudioOnly,
		}
	})
}

type Connected struct {
	ConnectionID domain.ConnID `json:"connectionId"`
}

type RoomIDAssigned struct {
	RoomID domain.RoomID `json:"roomId"`
}

type RoomUpdate struct {
	Participants []ParticipantDTO `json:"participants"`
}

// PeerPrepare asks an existing member to set up a peer connection for
// TargetConnectionID before any handshake traffic arrives.
type PeerPrepare struct {
	TargetConnectionID domain.ConnID `json:"targetConnectionId"`
}

type PeerDisconnected struct {
	TargetConnectionID domain.ConnID `json:"targetConnectionId"`
}

// ConnInit and ConnSignal carry the remote peer in TargetConnectionID:
// the addressee on the way in, the sender on the way out.
type ConnInit struct {
	TargetConnectionID domain.ConnID `json:"targetConnectionId"`
}

type ConnSignal struct {
	TargetConnectionID domain.ConnID   `json:"targetConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

type DirectMessage struct {
	AuthorConnectionID   domain.ConnID `json:"authorConnectionId"`
	ReceiverConnectionID domain.ConnID `json:"receiverConnectionId"`
	DisplayName          string        `json:"displayName"`
	Content              string        `json:"content"`
	IsAuthor             bool          `json:"isAuthor"`
}

type Left struct{}

type Pong struct{}

type WhoAmI struct {
	ConnectionID domain.ConnID `json:"connectionId"`
	DisplayName  string        `json:"displayName,omitempty"`
	RoomID       domain.RoomID `json:"roomId,omitempty"`
}

// ErrorReply rejects one request of the receiving connection.
type ErrorReply struct {
	Request EventType `json:"request,omitempty"`
	Code    string    `json:"error"`
}

func (Connected) Type() EventType        { return EventConnected }
func (RoomIDAssigned) Type() EventType   { return EventRoomID }
func (RoomUpdate) Type() EventType       { return EventRoomUpdate }
func (PeerPrepare) Type() EventType      { return EventPeerPrepare }
func (PeerDisconnected) Type() EventType { return EventPeerDisconnected }
func (ConnInit) Type() EventType         { return EventConnInit }
func (ConnSignal) Type() EventType       { return EventConnSignal }
func (DirectMessage) Type() EventType    { return EventDirectMessage }
func (Left) Type() EventType             { return EventLeft }
func (Pong) Type() EventType             { return EventPong }
func (WhoAmI) Type() EventType           { return EventWhoAmI }
func (ErrorReply) Type() EventType       { return EventError }

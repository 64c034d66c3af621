package domain

import "github.com/google/uuid"

// DefaultMaxParticipants is the per-room occupancy bound when none is configured.
const DefaultMaxParticipants = 4

type RoomID string

func NewRoomID() RoomID { return RoomID(uuid.NewString()) }

// Room is a read-only snapshot of a room. Participants are in join order.
type Room struct {
	ID           RoomID
	Participants []Participant
}

func (r Room) Occupancy() int { return len(r.Participants) }

// Existence is the answer to the read-only room-exists query.
type Existence struct {
	Exists bool `json:"roomExists"`
	Full   bool `json:"full"`
}

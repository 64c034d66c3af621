// Package domain contains entities without transport logic, just meta-data
// and the invariants that travel with it.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxDisplayNameLen bounds display names when no limit is configured.
const DefaultMaxDisplayNameLen = 64

type (
	ParticipantID string
	// ConnID identifies one transport connection. A reconnect gets a new one.
	ConnID string
)

// NewConnID allocates a fresh connection identifier.
func NewConnID() ConnID { return ConnID(uuid.NewString()) }

// Participant is a logical occupant of a room, bound 1:1 to a live connection.
// All fields are fixed at join time.
type Participant struct {
	ID          ParticipantID
	ConnID      ConnID
	DisplayName string
	RoomID      RoomID
	AudioOnly   bool
}

// NewParticipant avoids raw literals in the lifecycle code and keeps
// display name checks in one place. The name is stored as sent.
// maxNameLen <= 0 means DefaultMaxDisplayNameLen.
func NewParticipant(conn ConnID, displayName string, room RoomID, audioOnly bool, maxNameLen int) (*Participant, error) {
	if maxNameLen <= 0 {
		maxNameLen = DefaultMaxDisplayNameLen
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrDisplayNameEmpty
	}
	if len(displayName) > maxNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &Participant{
		ID:          ParticipantID(uuid.NewString()),
		ConnID:      conn,
		DisplayName: displayName,
		RoomID:      room,
		AudioOnly:   audioOnly,
	}, nil
}

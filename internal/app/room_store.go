package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RoomStore is the source of truth for membership. A room exists only while
// it has at least one participant: it is created together with its first
// member and dropped in the same step that removes its last.
type RoomStore struct {
	mu              sync.RWMutex
	maxParticipants int
	rooms           map[domain.RoomID][]domain.Participant
	newID           func() domain.RoomID
}

func NewRoomStore(maxParticipants int) *RoomStore {
	if maxParticipants <= 0 {
		maxParticipants = domain.DefaultMaxParticipants
	}
	return &RoomStore{
		maxParticipants: maxParticipants,
		rooms:           make(map[domain.RoomID][]domain.Participant),
		newID:           domain.NewRoomID,
	}
}

func (s *RoomStore) MaxParticipants() int { return s.maxParticipants }

// CreateRoom allocates an unused room id and opens the room with founder as
// its only member. founder.RoomID is overwritten with the new id.
func (s *RoomStore) CreateRoom(founder domain.Participant) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	for _, taken := s.rooms[id]; taken; _, taken = s.rooms[id] {
		id = s.newID()
	}
	founder.RoomID = id
	s.rooms[id] = []domain.Participant{founder}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return snapshot(id, s.rooms[id])
}

func (s *RoomStore) GetRoom(id domain.RoomID) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return snapshot(id, members), true
}

// AddParticipant appends p in join order and returns the resulting room.
func (s *RoomStore) AddParticipant(id domain.RoomID, p domain.Participant) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if len(members) >= s.maxParticipants {
		return domain.Room{}, domain.ErrRoomFull
	}
	p.RoomID = id
	s.rooms[id] = append(members, p)
	return snapshot(id, s.rooms[id]), nil
}

// RemoveParticipant drops the participant bound to conn. Unknown rooms or
// connections are a no-op (removed == false). closed reports that the room
// became empty and no longer exists.
func (s *RoomStore) RemoveParticipant(id domain.RoomID, conn domain.ConnID) (room domain.Room, removed, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false, false
	}
	rest := lo.Filter(members, func(p domain.Participant, _ int) bool { return p.ConnID != conn })
	if len(rest) == len(members) {
		return snapshot(id, members), false, false
	}
	if len(rest) == 0 {
		delete(s.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room closed")
		return domain.Room{ID: id}, true, true
	}
	s.rooms[id] = rest
	return snapshot(id, rest), true, false
}

// RoomExists answers the read-only existence query. A room is full once
// its occupancy reaches the configured bound.
func (s *RoomStore) RoomExists(id domain.RoomID) domain.Existence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.rooms[id]
	if !ok {
		return domain.Existence{}
	}
	return domain.Existence{Exists: true, Full: len(members) > s.maxParticipants-1}
}

// List returns every room ordered by id.
func (s *RoomStore) List() []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for id, members := range s.rooms {
		out = append(out, snapshot(id, members))
	}
	slices.SortFunc(out, func(a, b domain.Room) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}

// Counts returns the number of rooms and of participants across them.
func (s *RoomStore) Counts() (rooms, participants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, members := range s.rooms {
		participants += len(members)
	}
	return len(s.rooms), participants
}

func snapshot(id domain.RoomID, members []domain.Participant) domain.Room {
	return domain.Room{ID: id, Participants: slices.Clone(members)}
}

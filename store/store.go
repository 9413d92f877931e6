// Package store owns the authoritative registry of rooms and the
// participant->room index. It is pure in-memory state with no I/O;
// both the realtime pool and the REST pool are instances of it.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"matchroom/domain"
	errs "matchroom/errors"
)

// Options parameterize a pool. The realtime pool keeps empty rooms
// forever; the REST pool enforces global display-name uniqueness and
// deletes a drained room while at least one other room exists.
type Options struct {
	Capacity    int
	GlobalNames bool
	DeleteEmpty bool
}

// RoomStore is safe for concurrent use. Mutations take the write lock;
// Stats and lookups are snapshot-consistent under the read lock.
type RoomStore struct {
	mu      sync.RWMutex
	opts    Options
	rooms   []*domain.Room    // creation order, drives first-fit
	byID    map[string]*domain.Room
	index   map[string]string // participant id -> room id
	created int
}

type RoomStats struct {
	ID           string `json:"id"`
	UserCount    int    `json:"userCount"`
	MessageCount int    `json:"messageCount"`
}

type Stats struct {
	TotalRooms int         `json:"totalRooms"`
	TotalUsers int         `json:"totalUsers"`
	PerRoom    []RoomStats `json:"perRoom"`
}

func New(opts Options) *RoomStore {
	return &RoomStore{
		opts:  opts,
		byID:  make(map[string]*domain.Room),
		index: make(map[string]string),
	}
}

// CreateRoom allocates an empty room with a fresh id. Uniqueness comes
// from the creation counter; the uuid suffix disambiguates ids across
// restarts for log readers.
func (s *RoomStore) CreateRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRoomLocked().ID
}

func (s *RoomStore) createRoomLocked() *domain.Room {
	s.created++
	id := fmt.Sprintf("room-%d-%s", s.created, uuid.NewString()[:8])
	room := domain.NewRoom(id, s.opts.Capacity)
	s.rooms = append(s.rooms, room)
	s.byID[id] = room
	return room
}

// FindAvailable returns the earliest-created room with spare capacity.
// This yields a fill-rooms-in-order packing policy, not load balancing.
func (s *RoomStore) FindAvailable() (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		if room.HasSpace() {
			return room, true
		}
	}
	return nil, false
}

// AddMember inserts the participant into the room, evicting any prior
// membership in a different room first. Re-adding to the same room is
// a no-op.
func (s *RoomStore) AddMember(roomID string, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.byID[roomID]
	if !ok {
		return errs.ErrRoomNotFound
	}
	if current, indexed := s.index[p.ID]; indexed {
		if current == roomID {
			return nil
		}
		s.removeMemberLocked(p.ID)
	}
	room.Members = append(room.Members, p)
	s.index[p.ID] = roomID
	return nil
}

// RemoveMember drops the participant from their current room and
// clears the index entry. Removing an unknown participant is a safe
// no-op returning false.
func (s *RoomStore) RemoveMember(participantID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeMemberLocked(participantID)
}

func (s *RoomStore) removeMemberLocked(participantID string) (string, bool) {
	roomID, ok := s.index[participantID]
	if !ok {
		return "", false
	}
	delete(s.index, participantID)

	room := s.byID[roomID]
	for i, m := range room.Members {
		if m.ID == participantID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}
	if s.opts.DeleteEmpty && len(room.Members) == 0 && len(s.rooms) > 1 {
		s.deleteRoomLocked(roomID)
	}
	return roomID, true
}

func (s *RoomStore) deleteRoomLocked(roomID string) {
	delete(s.byID, roomID)
	for i, room := range s.rooms {
		if room.ID == roomID {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return
		}
	}
}

// RoomOf returns the room currently occupied by the participant.
func (s *RoomStore) RoomOf(participantID string) (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.index[participantID]
	if !ok {
		return nil, false
	}
	room, ok := s.byID[roomID]
	return room, ok
}

func (s *RoomStore) Get(roomID string) (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.byID[roomID]
	return room, ok
}

// AppendMessage stores a message in the room's bounded history and
// returns it with server-assigned id and timestamp.
func (s *RoomStore) AppendMessage(roomID string, msg domain.Message) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.byID[roomID]
	if !ok {
		return domain.Message{}, errs.ErrRoomNotFound
	}
	msg.RoomID = roomID
	return room.History.Append(msg), nil
}

// History returns the room's current buffer, oldest first.
func (s *RoomStore) History(roomID string) ([]domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.byID[roomID]
	if !ok {
		return nil, false
	}
	return room.History.Snapshot(), true
}

// NameInUse reports whether the trimmed display name is already taken,
// case-insensitively, anywhere in the pool.
func (s *RoomStore) NameInUse(displayName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nameInUseLocked(s, displayName)
}

// Stats aggregates room and member counts for observability.
func (s *RoomStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{TotalRooms: len(s.rooms)}
	for _, room := range s.rooms {
		stats.TotalUsers += len(room.Members)
		stats.PerRoom = append(stats.PerRoom, RoomStats{
			ID:           room.ID,
			UserCount:    len(room.Members),
			MessageCount: room.History.Len(),
		})
	}
	return stats
}

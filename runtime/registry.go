package runtime

import (
	"sync"

	"matchroom/contract"
)

type Set map[string]struct{}

// Registry maps live connections to participants and participants to
// the single room whose fan-out group they belong to.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]contract.EventSink // participant -> sink
	RoomMembers map[string]Set                // room -> participants
	memberRoom  map[string]string             // participant -> room
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]contract.EventSink),
		RoomMembers: make(map[string]Set),
		memberRoom:  make(map[string]string),
	}
}

// Register records a participant's active connection. Room placement
// happens separately once assignment has decided where they go.
func (r *Registry) Register(participantID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sessions[participantID] = sink
}

// Deregister removes the connection and any room wiring it had.
func (r *Registry) Deregister(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Sessions, participantID)
	r.leaveRoomLocked(participantID)
}

// JoinRoom wires the participant into a room's fan-out group, leaving
// any previously joined group first. A participant belongs to one
// group at most.
func (r *Registry) JoinRoom(participantID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaveRoomLocked(participantID)

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][participantID] = struct{}{}
	r.memberRoom[participantID] = roomID
}

func (r *Registry) LeaveRoom(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveRoomLocked(participantID)
}

// leaveRoomLocked cleans the membership set and drops empty sets
// to prevent memory leaks over time.
func (r *Registry) leaveRoomLocked(participantID string) {
	roomID, ok := r.memberRoom[participantID]
	if !ok {
		return
	}
	delete(r.memberRoom, participantID)
	if members, ok := r.RoomMembers[roomID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.RoomMembers, roomID)
		}
	}
}

// GetSinksForRoom retrieves all active communication channels for a specific room.
// It performs a two-step lookup:
// 1. Identifies participant IDs associated with the room via RoomMembers.
// 2. Resolves those IDs into actual EventSinks using the Sessions map.
//
// Returns nil if the room doesn't exist or has no members.
func (r *Registry) GetSinksForRoom(roomID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// GetSinksForRoomExcept is GetSinksForRoom minus one participant,
// used for join and leave notices that must not echo to their origin.
func (r *Registry) GetSinksForRoomExcept(roomID, exceptID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if participantID == exceptID {
			continue
		}
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// SinkOf resolves the connection of a single participant, used for
// events scoped to one connection (acks, history, errors).
func (r *Registry) SinkOf(participantID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.Sessions[participantID]
	return sink, ok
}

package store

import (
	"strings"

	"matchroom/domain"
	errs "matchroom/errors"
)

// Assigner is the matchmaking policy layered on a RoomStore: first fit
// by room creation order, create a room when every existing one is
// full. First-fit keeps early rooms full before new ones open, which
// bounds the number of simultaneously active rooms; with the small
// capacity constant the per-room skew does not matter.
type Assigner struct {
	store *RoomStore
}

func NewAssigner(store *RoomStore) *Assigner {
	return &Assigner{store: store}
}

// Assign places the participant into a room and returns it. The whole
// decision runs under one write lock so concurrent joins can never
// overfill a room. A participant occupying another room is evicted
// from it first; rejoining the current room is a no-op placement.
func (a *Assigner) Assign(p domain.Participant) (*domain.Room, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pools with global name uniqueness treat every join as a fresh
	// arrival: any case-insensitive match anywhere is a conflict.
	if s.opts.GlobalNames && nameInUseLocked(s, p.DisplayName) {
		return nil, errs.ErrNameTaken
	}

	var target *domain.Room
	for _, room := range s.rooms {
		if room.HasSpace() {
			target = room
			break
		}
	}
	if current, ok := s.index[p.ID]; ok {
		if target != nil && current == target.ID {
			return target, nil
		}
		s.removeMemberLocked(p.ID)
		// Eviction may have freed a slot earlier in creation order.
		target = nil
		for _, room := range s.rooms {
			if room.HasSpace() {
				target = room
				break
			}
		}
	}
	if target == nil {
		target = s.createRoomLocked()
	}
	target.Members = append(target.Members, p)
	s.index[p.ID] = target.ID
	return target, nil
}

func nameInUseLocked(s *RoomStore, displayName string) bool {
	wanted := strings.ToLower(strings.TrimSpace(displayName))
	for _, room := range s.rooms {
		for _, m := range room.Members {
			if strings.ToLower(strings.TrimSpace(m.DisplayName)) == wanted {
				return true
			}
		}
	}
	return false
}

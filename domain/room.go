package domain

// Room is a capacity-bounded group of participants sharing a history.
// Members keeps insertion order; the store enforces uniqueness and the
// capacity invariant.
type Room struct {
	ID       string
	Capacity int
	Members  []Participant
	History  *MessageLog
}

func NewRoom(id string, capacity int) *Room {
	return &Room{
		ID:       id,
		Capacity: capacity,
		History:  NewMessageLog(HistoryLimit),
	}
}

func (r *Room) HasSpace() bool {
	return len(r.Members) < r.Capacity
}

// Member returns the member with the given participant id, if present.
func (r *Room) Member(participantID string) (Participant, bool) {
	for _, m := range r.Members {
		if m.ID == participantID {
			return m, true
		}
	}
	return Participant{}, false
}

package event

import (
	"matchroom/domain"
)

// DomainEvent is anything the fanout worker can deliver to sinks.
// Room-scoped events carry the room they belong to; Targeted events
// additionally name the single participant they are meant for.
type DomainEvent interface {
	RoomID() string
}

// Targeted restricts delivery to one participant instead of the room.
type Targeted interface {
	DomainEvent
	TargetID() string
}

// Excluding removes one participant from a room-wide delivery.
type Excluding interface {
	DomainEvent
	ExcludeID() string
}

// RoomAssigned acknowledges a join to the joining participant only.
type RoomAssigned struct {
	Room      string
	UserID    string
	UserCount int
}

func (e RoomAssigned) RoomID() string   { return e.Room }
func (e RoomAssigned) TargetID() string { return e.UserID }

// MessageHistory delivers the catch-up snapshot to the joining participant.
type MessageHistory struct {
	Room     string
	UserID   string
	Messages []domain.Message
}

func (e MessageHistory) RoomID() string   { return e.Room }
func (e MessageHistory) TargetID() string { return e.UserID }

// UserJoined notifies existing members that someone arrived.
type UserJoined struct {
	Room      string
	User      domain.Participant
	UserCount int
}

func (e UserJoined) RoomID() string    { return e.Room }
func (e UserJoined) ExcludeID() string { return e.User.ID }

// MessagePosted carries a stored message to every member, sender included.
type MessagePosted struct {
	Room    string
	Message domain.Message
}

func (e MessagePosted) RoomID() string { return e.Room }

// UserLeft notifies remaining members that someone is gone.
type UserLeft struct {
	Room      string
	User      domain.Participant
	UserCount int
}

func (e UserLeft) RoomID() string { return e.Room }

// OperationFailed is scoped to the offending participant's connection.
type OperationFailed struct {
	Room   string
	UserID string
	Reason string
}

func (e OperationFailed) RoomID() string   { return e.Room }
func (e OperationFailed) TargetID() string { return e.UserID }

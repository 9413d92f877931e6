package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"matchroom/domain/event"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_OneRoomOneParticipant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	sink := Sink{name: "a"}

	// Given no user is connected
	// And no room exists
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// When a participant connects and joins a room
	registry.Register(participantID, sink)
	registry.JoinRoom(participantID, "room-1")

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[participantID])

	req.Len(registry.RoomMembers, 1)
	req.Contains(registry.RoomMembers["room-1"], participantID)

	req.Len(registry.GetSinksForRoom("room-1"), 1)
	req.Contains(registry.GetSinksForRoom("room-1"), sink)
}

func TestRegistry_OneRoomMultipleParticipants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID1 := uuid.NewString()
	participantID2 := uuid.NewString()
	sink1 := Sink{name: "a"}
	sink2 := Sink{name: "b"}

	// When participants join a room
	registry.Register(participantID1, sink1)
	registry.JoinRoom(participantID1, "room-1")
	registry.Register(participantID2, sink2)
	registry.JoinRoom(participantID2, "room-1")

	// Then
	req.Len(registry.Sessions, 2)
	req.Len(registry.RoomMembers["room-1"], 2)

	req.Len(registry.GetSinksForRoom("room-1"), 2)
	req.Contains(registry.GetSinksForRoom("room-1"), sink1)
}

func TestRegistry_JoinRoom_LeavesPreviousGroup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	sink := Sink{name: "a"}

	// Given a participant wired to the first room
	registry.Register(participantID, sink)
	registry.JoinRoom(participantID, "room-1")

	// When they get assigned to a second room
	registry.JoinRoom(participantID, "room-2")

	// Then they belong to exactly one fan-out group
	req.Nil(registry.GetSinksForRoom("room-1"))
	req.Len(registry.GetSinksForRoom("room-2"), 1)
}

func TestRegistry_GetSinksForRoomExcept(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink1 := Sink{name: "a"}
	sink2 := Sink{name: "b"}

	registry.Register("p1", sink1)
	registry.JoinRoom("p1", "room-1")
	registry.Register("p2", sink2)
	registry.JoinRoom("p2", "room-1")

	sinks := registry.GetSinksForRoomExcept("room-1", "p1")
	req.Len(sinks, 1)
	req.Contains(sinks, sink2)
}

func TestRegistry_Deregister(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	sink := Sink{name: "a"}

	// Given a connected participant inside a room
	registry.Register(participantID, sink)
	registry.JoinRoom(participantID, "room-1")

	// When the connection goes away
	registry.Deregister(participantID)

	// Then no session is left
	// And the empty room entry is cleaned up
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)
	req.Nil(registry.GetSinksForRoom("room-1"))

	_, ok := registry.SinkOf(participantID)
	req.False(ok)
}

func TestRegistry_Deregister_UnknownParticipantIsNoop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("p1", Sink{name: "a"})
	registry.JoinRoom("p1", "room-1")

	registry.Deregister("ghost")

	req.Len(registry.Sessions, 1)
	req.Len(registry.GetSinksForRoom("room-1"), 1)
}

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"matchroom/domain"
	"matchroom/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one delivery target, typically a live connection.
// Consume must not block longer than the supplied context allows.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which connection sink belongs to which participant
// and which participants are wired to a room's fan-out group.
type IRegistry interface {
	Register(participantID string, sink EventSink)
	Deregister(participantID string)
	JoinRoom(participantID, roomID string)
	LeaveRoom(participantID string)
	GetSinksForRoom(roomID string) []EventSink
	GetSinksForRoomExcept(roomID, exceptID string) []EventSink
	SinkOf(participantID string) (EventSink, bool)
}

// IOrchestrator is the command entry point the transport layer talks to.
type IOrchestrator interface {
	Join(p domain.Participant, sink EventSink)
	Send(cmd domain.SendCommand)
	Leave(participantID, reason string)
	Start(ctx context.Context) error
	Stop()
}

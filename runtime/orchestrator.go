// Package runtime wires the realtime pool together: command intake,
// the serialized room worker, event fan-out, and supervision. It
// orchestrates the system without containing domain rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"matchroom/contract"
	"matchroom/domain"
	"matchroom/domain/event"
	"matchroom/moderation"
	"matchroom/runtime/workers"
	"matchroom/store"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

// Orchestrator owns the single shared state of the realtime pool for
// the lifetime of the process. All mutations funnel through the
// command channel into one RoomWorker, which is the serialization
// point preserving the membership and history invariants. State is
// process-local: multiple instances will not share rooms; scaling out
// requires sticky routing or an external store, which is out of scope.
type Orchestrator struct {
	log             *slog.Logger
	store           *store.RoomStore
	assigner        *store.Assigner
	registry        contract.IRegistry
	supervisor      contract.ISupervisor
	moderator       *moderation.Moderator
	permanentSinks  []contract.EventSink
	commands        chan domain.Command
	events          chan event.DomainEvent
	sinkTimeout     time.Duration
	heartbeat       time.Duration
	charReplacement rune
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor *workers.Supervisor,
	registry *Registry,
	st *store.RoomStore,
	bufferSize int,
	sinkTimeout, heartbeat time.Duration,
	charReplacement rune) *Orchestrator {
	return &Orchestrator{
		log:             log,
		store:           st,
		assigner:        store.NewAssigner(st),
		registry:        registry,
		supervisor:      supervisor,
		commands:        make(chan domain.Command, bufferSize),
		events:          make(chan event.DomainEvent, bufferSize),
		sinkTimeout:     sinkTimeout,
		heartbeat:       heartbeat,
		charReplacement: charReplacement,
	}
}

// Add registers permanent sinks receiving every event next to the
// room-scoped connection delivery.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Join registers the connection and queues the assignment.
func (o *Orchestrator) Join(p domain.Participant, sink contract.EventSink) {
	o.registry.Register(p.ID, sink)
	o.dispatch(domain.JoinCommand{UserID: p.ID, UserName: p.DisplayName})
}

func (o *Orchestrator) Send(cmd domain.SendCommand) {
	o.dispatch(cmd)
}

// Leave queues the disconnect cleanup. Leaving while not in any room
// is a safe no-op downstream.
func (o *Orchestrator) Leave(participantID, reason string) {
	o.dispatch(domain.LeaveCommand{UserID: participantID, Reason: reason})
}

func (o *Orchestrator) dispatch(cmd domain.Command) {
	select {
	case o.commands <- cmd:
	default:
		o.log.Warn(fmt.Sprintf("Command channel full, dropping command for %s", cmd.ParticipantID()))
	}
}

// Stats exposes the pool aggregate for observability surfaces.
func (o *Orchestrator) Stats() store.Stats {
	return o.store.Stats()
}

// Start prepares the moderation automaton, builds the worker set, and
// hands them to the supervisor. Heavy preparation happens before any
// worker runs.
func (o *Orchestrator) Start(ctx context.Context) error {
	moderator, err := o.prepareModeration(o.charReplacement)
	if err != nil {
		return err
	}
	o.moderator = moderator

	roomWorker := workers.NewRoomWorker(
		o.store, o.assigner, o.registry, o.moderator, o.commands, o.events, o.log)
	fanout := workers.NewEventFanout(
		o.log, o.registry, o.events, o.permanentSinks, o.sinkTimeout)

	o.supervisor.Add(roomWorker)
	o.supervisor.Add(fanout)
	if o.heartbeat > 0 {
		o.supervisor.Add(workers.NewHeartbeatWorker(o.log, o.store, o.heartbeat))
	}

	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
	return nil
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration(charReplacement rune) (*moderation.Moderator, error) {
	data, err := moderation.LoadWords()
	if err != nil {
		return nil, err
	}
	o.log.Info(fmt.Sprintf("%d unique censored words loaded for %d languages",
		len(data.Words), len(data.Languages)))
	return moderation.NewModerator(data.Words, charReplacement, o.log)
}

// Stop initiates a graceful shutdown by cancelling the supervised
// context; workers drain and exit on their own.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}

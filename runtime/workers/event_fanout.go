package workers

import (
	"context"
	"log/slog"
	"time"

	"matchroom/contract"
	"matchroom/domain/event"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts domain events to the connections of the room
// they belong to, plus any permanent sinks (projections, telemetry).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
// A slow or closed connection never stalls delivery to the others: each
// Consume runs under its own timeout and failures are logged and dropped.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(
	log *slog.Logger,
	registry contract.IRegistry,
	events chan event.DomainEvent,
	permanentSinks []contract.EventSink,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		registry:       registry,
		events:         events,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout resolves the delivery scope of one event and pushes it to
// every matching sink.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks(evt) {
		w.consume(ctx, sink, evt)
	}
	for _, sink := range w.permanentSinks {
		w.consume(ctx, sink, evt)
	}
}

// sinks picks the connections an event is addressed to: one participant
// for targeted events, the whole room minus the origin for notices,
// the whole room otherwise.
func (w *EventFanout) sinks(evt event.DomainEvent) []contract.EventSink {
	switch e := evt.(type) {
	case event.Targeted:
		sink, ok := w.registry.SinkOf(e.TargetID())
		if !ok {
			// The connection vanished mid-operation; best effort only.
			w.log.Debug("No sink for targeted event", "target", e.TargetID())
			return nil
		}
		return []contract.EventSink{sink}
	case event.Excluding:
		return w.registry.GetSinksForRoomExcept(e.RoomID(), e.ExcludeID())
	default:
		return w.registry.GetSinksForRoom(evt.RoomID())
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink delivery failed", "error", err)
	}
}

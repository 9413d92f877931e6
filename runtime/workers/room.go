package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"matchroom/contract"
	"matchroom/domain"
	"matchroom/domain/event"
	"matchroom/moderation"
	"matchroom/store"
)

var _ contract.Worker = (*RoomWorker)(nil)

// RoomWorker is the single serialized handler loop for the realtime
// pool. Every mutation of room, index, and history state arrives here
// as a tagged command, so invariants only need to hold across one
// goroutine. Content moderation runs before the append so the stored
// history and the broadcast always agree.
type RoomWorker struct {
	store     *store.RoomStore
	assigner  *store.Assigner
	registry  contract.IRegistry
	moderator *moderation.Moderator
	commands  chan domain.Command
	events    chan event.DomainEvent
	log       *slog.Logger
}

func NewRoomWorker(
	st *store.RoomStore,
	assigner *store.Assigner,
	registry contract.IRegistry,
	moderator *moderation.Moderator,
	commands chan domain.Command,
	events chan event.DomainEvent,
	log *slog.Logger) *RoomWorker {
	return &RoomWorker{
		store:     st,
		assigner:  assigner,
		registry:  registry,
		moderator: moderator,
		commands:  commands,
		events:    events,
		log:       log,
	}
}

func (w *RoomWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			for _, evt := range w.Handle(cmd) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case w.events <- evt:
				}
			}
		}
	}
}

// Handle applies one command to the shared state and returns the
// events to publish, in order. Exposed for direct use in tests.
func (w *RoomWorker) Handle(cmd domain.Command) []event.DomainEvent {
	switch c := cmd.(type) {
	case domain.JoinCommand:
		return w.handleJoin(c)
	case domain.SendCommand:
		return w.handleSend(c)
	case domain.LeaveCommand:
		return w.handleLeave(c)
	default:
		w.log.Warn("Unknown command type", "command", fmt.Sprintf("%T", cmd))
		return nil
	}
}

func (w *RoomWorker) handleJoin(c domain.JoinCommand) []event.DomainEvent {
	participant := domain.Participant{ID: c.UserID, DisplayName: c.UserName}
	room, err := w.assigner.Assign(participant)
	if err != nil {
		// Assignment cannot fail in this pool by construction; a
		// failure means a storage invariant broke, scoped to the joiner.
		w.log.Error("Assignment failed", "user_id", c.UserID, "error", err)
		return []event.DomainEvent{event.OperationFailed{UserID: c.UserID, Reason: err.Error()}}
	}
	w.registry.JoinRoom(c.UserID, room.ID)

	history, _ := w.store.History(room.ID)
	return []event.DomainEvent{
		event.RoomAssigned{Room: room.ID, UserID: c.UserID, UserCount: len(room.Members)},
		event.MessageHistory{Room: room.ID, UserID: c.UserID, Messages: history},
		event.UserJoined{Room: room.ID, User: participant, UserCount: len(room.Members)},
	}
}

func (w *RoomWorker) handleSend(c domain.SendCommand) []event.DomainEvent {
	content := c.Content
	if w.moderator != nil {
		content, _ = w.moderator.Censor(content)
	}
	info := whatlanggo.Detect(c.Content)

	stored, err := w.store.AppendMessage(c.Room, domain.Message{
		SenderID:   c.SenderID,
		SenderName: c.SenderName,
		Content:    content,
		Lang:       info.Lang.Iso6391(),
		CreatedAt:  c.CreatedAt,
	})
	if err != nil {
		w.log.Debug(fmt.Sprintf("Room %s doesn't exist", c.Room))
		return []event.DomainEvent{event.OperationFailed{
			Room:   c.Room,
			UserID: c.SenderID,
			Reason: err.Error(),
		}}
	}
	return []event.DomainEvent{event.MessagePosted{Room: c.Room, Message: stored}}
}

func (w *RoomWorker) handleLeave(c domain.LeaveCommand) []event.DomainEvent {
	user := domain.Participant{ID: c.UserID}
	if room, ok := w.store.RoomOf(c.UserID); ok {
		if member, found := room.Member(c.UserID); found {
			user = member
		}
	}

	roomID, ok := w.store.RemoveMember(c.UserID)
	w.registry.Deregister(c.UserID)
	if !ok {
		// Leaving while not in any room is a safe no-op.
		return nil
	}
	w.log.Debug("Participant left", "user_id", c.UserID, "room_id", roomID, "reason", c.Reason)

	count := 0
	if room, exists := w.store.Get(roomID); exists {
		count = len(room.Members)
	}
	return []event.DomainEvent{event.UserLeft{Room: roomID, User: user, UserCount: count}}
}

package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"matchroom/contract"
	"matchroom/domain"
	"matchroom/domain/event"
	"matchroom/mocks"
)

func TestEventFanout_TargetedEventReachesOnlyItsRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	sink := mocks.NewMockEventSink(ctrl)

	evt := event.RoomAssigned{Room: "room-1", UserID: "alice", UserCount: 1}
	registry.EXPECT().SinkOf("alice").Return(sink, true)
	sink.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	fanout := NewEventFanout(slog.Default(), registry, nil, nil, time.Second)
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_TargetedEventWithoutSinkIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	registry.EXPECT().SinkOf("ghost").Return(nil, false)

	fanout := NewEventFanout(slog.Default(), registry, nil, nil, time.Second)
	fanout.Fanout(context.Background(), event.MessageHistory{Room: "room-1", UserID: "ghost"})
}

func TestEventFanout_NoticeExcludesItsOrigin(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	other := mocks.NewMockEventSink(ctrl)

	evt := event.UserJoined{Room: "room-1", User: domain.Participant{ID: "alice"}, UserCount: 2}
	registry.EXPECT().
		GetSinksForRoomExcept("room-1", "alice").
		Return([]contract.EventSink{other})
	other.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	fanout := NewEventFanout(slog.Default(), registry, nil, nil, time.Second)
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_RoomEventReachesWholeRoomAndPermanentSinks(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	member1 := mocks.NewMockEventSink(ctrl)
	member2 := mocks.NewMockEventSink(ctrl)
	timeline := mocks.NewMockEventSink(ctrl)

	evt := event.MessagePosted{Room: "room-1", Message: domain.Message{Content: "hello"}}
	registry.EXPECT().
		GetSinksForRoom("room-1").
		Return([]contract.EventSink{member1, member2})
	member1.EXPECT().Consume(gomock.Any(), evt).Return(nil)
	member2.EXPECT().Consume(gomock.Any(), evt).Return(nil)
	timeline.EXPECT().Consume(gomock.Any(), evt).Return(nil)

	fanout := NewEventFanout(slog.Default(), registry, nil, []contract.EventSink{timeline}, time.Second)
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_SlowSinkDoesNotStallTheOthers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	slow := mocks.NewMockEventSink(ctrl)
	healthy := mocks.NewMockEventSink(ctrl)

	evt := event.MessagePosted{Room: "room-1", Message: domain.Message{Content: "hello"}}
	registry.EXPECT().
		GetSinksForRoom("room-1").
		Return([]contract.EventSink{slow, healthy})
	slow.EXPECT().
		Consume(gomock.Any(), evt).
		DoAndReturn(func(ctx context.Context, _ event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		})
	delivered := false
	healthy.EXPECT().
		Consume(gomock.Any(), evt).
		DoAndReturn(func(context.Context, event.DomainEvent) error {
			delivered = true
			return nil
		})

	fanout := NewEventFanout(slog.Default(), registry, nil, nil, 10*time.Millisecond)
	fanout.Fanout(context.Background(), evt)

	req.True(delivered)
}

func TestEventFanout_RunStopsWhenChannelCloses(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	events := make(chan event.DomainEvent)
	close(events)

	fanout := NewEventFanout(slog.Default(), registry, events, nil, time.Second)
	req.NoError(fanout.Run(context.Background()))
}

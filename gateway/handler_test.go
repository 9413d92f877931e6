package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"matchroom/contract"
	"matchroom/domain"
	"matchroom/domain/event"
	"matchroom/mocks"
)

func testSocketConfig() SocketConfig {
	return SocketConfig{
		WriteWait:      time.Second,
		PongWait:       5 * time.Second,
		PingInterval:   time.Second,
		MaxMessageSize: 4096,
		SendBufferSize: 16,
	}
}

func dial(t *testing.T, orchestrator contract.IOrchestrator) *websocket.Conn {
	t.Helper()
	handler := NewHandler(slog.Default(), orchestrator, testSocketConfig())
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, name string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	frame, err := json.Marshal(Frame{Event: name, Data: raw})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func TestHandler_JoinFrameReachesOrchestrator(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)

	joined := make(chan domain.Participant, 1)
	orchestrator.EXPECT().
		Join(gomock.Any(), gomock.Any()).
		Do(func(p domain.Participant, _ contract.EventSink) {
			joined <- p
		})
	orchestrator.EXPECT().Leave(gomock.Any(), gomock.Any()).AnyTimes()

	conn := dial(t, orchestrator)
	writeFrame(t, conn, EventJoinRoom, JoinRoomPayload{UserID: "alice", UserName: "Alice"})

	select {
	case p := <-joined:
		req.Equal("alice", p.ID)
		req.Equal("Alice", p.DisplayName)
	case <-time.After(time.Second):
		req.Fail("orchestrator never received the join")
	}
}

func TestHandler_SendFrameDefaultsTimestamp(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)

	sent := make(chan domain.SendCommand, 1)
	orchestrator.EXPECT().
		Send(gomock.Any()).
		Do(func(cmd domain.SendCommand) {
			sent <- cmd
		})
	orchestrator.EXPECT().Leave(gomock.Any(), gomock.Any()).AnyTimes()

	conn := dial(t, orchestrator)
	writeFrame(t, conn, EventSendMessage, SendMessagePayload{
		SenderID: "alice",
		Message:  "hello",
		RoomID:   "room-1",
	})

	select {
	case cmd := <-sent:
		req.Equal("alice", cmd.SenderID)
		req.Equal("hello", cmd.Content)
		req.Equal("room-1", cmd.Room)
		req.False(cmd.CreatedAt.IsZero())
	case <-time.After(time.Second):
		req.Fail("orchestrator never received the message")
	}
}

func TestHandler_DisconnectTriggersLeave(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)

	left := make(chan string, 1)
	orchestrator.EXPECT().
		Leave(gomock.Any(), "connection closed").
		Do(func(id, _ string) {
			left <- id
		})

	conn := dial(t, orchestrator)
	req.NoError(conn.Close())

	select {
	case id := <-left:
		req.NotEmpty(id)
	case <-time.After(time.Second):
		req.Fail("disconnect never reached the orchestrator")
	}
}

func TestHandler_MalformedFrameIsIgnored(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	orchestrator.EXPECT().Leave(gomock.Any(), gomock.Any()).AnyTimes()

	joined := make(chan struct{}, 1)
	orchestrator.EXPECT().
		Join(gomock.Any(), gomock.Any()).
		Do(func(domain.Participant, contract.EventSink) {
			joined <- struct{}{}
		})

	conn := dial(t, orchestrator)
	// Garbage and unknown frames are dropped without closing the socket
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	writeFrame(t, conn, "no-such-event", struct{}{})

	// The connection still works afterwards
	writeFrame(t, conn, EventJoinRoom, JoinRoomPayload{UserID: "alice", UserName: "Alice"})
	select {
	case <-joined:
	case <-time.After(time.Second):
		req.Fail("socket should survive malformed frames")
	}
}

func TestClient_ConsumeDeliversEncodedFrame(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	orchestrator.EXPECT().Leave(gomock.Any(), gomock.Any()).AnyTimes()

	var sink contract.EventSink
	captured := make(chan struct{}, 1)
	orchestrator.EXPECT().
		Join(gomock.Any(), gomock.Any()).
		Do(func(_ domain.Participant, s contract.EventSink) {
			sink = s
			captured <- struct{}{}
		})

	conn := dial(t, orchestrator)
	writeFrame(t, conn, EventJoinRoom, JoinRoomPayload{UserID: "alice", UserName: "Alice"})
	select {
	case <-captured:
	case <-time.After(time.Second):
		req.Fail("join never captured the sink")
	}

	// When the fanout hands the sink an event
	err := sink.Consume(context.Background(), event.RoomAssigned{Room: "room-1", UserID: "alice", UserCount: 1})
	req.NoError(err)

	// Then the wire frame arrives on the socket
	req.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	req.NoError(err)

	var frame Frame
	req.NoError(json.Unmarshal(data, &frame))
	req.Equal(EventRoomAssigned, frame.Event)
}

package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"matchroom/contract"
	"matchroom/domain"
)

// Handler upgrades HTTP requests and binds each connection's lifecycle
// to the orchestrator: frames become commands, disconnects become
// leave commands.
type Handler struct {
	log          *slog.Logger
	orchestrator contract.IOrchestrator
	upgrader     websocket.Upgrader
	cfg          SocketConfig
}

func NewHandler(log *slog.Logger, orchestrator contract.IOrchestrator, cfg SocketConfig) *Handler {
	return &Handler{
		log:          log,
		orchestrator: orchestrator,
		cfg:          cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The pool carries no credentials; origin filtering belongs
			// to the deployment's proxy layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws. The connection stays open until the
// client goes away; cleanup runs exactly once per connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), conn, h.cfg, h.log)
	h.log.Debug("Connection established", "client_id", client.ID)

	go client.WritePump()
	client.ReadPump(h.handleFrame)

	// ReadPump returned: the connection is gone.
	h.orchestrator.Leave(client.ID, "connection closed")
	h.log.Debug("Connection closed", "client_id", client.ID)
}

func (h *Handler) handleFrame(client *Client, frame Frame) {
	switch frame.Event {
	case EventJoinRoom:
		var payload JoinRoomPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.log.Debug("Bad join payload", "client_id", client.ID, "error", err)
			return
		}
		// The transport-level client id is the participant id: one
		// connection, one participant, one room.
		client.ID = firstNonEmpty(payload.UserID, client.ID)
		h.orchestrator.Join(domain.Participant{
			ID:          client.ID,
			DisplayName: payload.UserName,
		}, client)

	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.log.Debug("Bad send payload", "client_id", client.ID, "error", err)
			return
		}
		createdAt := payload.Timestamp
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		h.orchestrator.Send(domain.SendCommand{
			SenderID:   firstNonEmpty(payload.SenderID, client.ID),
			SenderName: payload.SenderName,
			Content:    payload.Message,
			Room:       payload.RoomID,
			CreatedAt:  createdAt,
		})

	default:
		h.log.Debug("Unknown inbound event", "event", frame.Event)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

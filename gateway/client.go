package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"matchroom/contract"
	"matchroom/domain/event"
)

var _ contract.EventSink = (*Client)(nil)

// Client is one websocket connection. It doubles as the EventSink the
// fanout worker delivers to: Consume encodes the event and hands it to
// the buffered send channel so one slow connection never blocks the
// fanout loop.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	cfg  SocketConfig
	log  *slog.Logger
}

// SocketConfig carries the pump tuning knobs.
type SocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBufferSize int
}

func NewClient(id string, conn *websocket.Conn, cfg SocketConfig, log *slog.Logger) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, cfg.SendBufferSize),
		cfg:  cfg,
		log:  log,
	}
}

// Consume is called by the fanout worker. If the send buffer is full
// the event is dropped; delivery is best effort by design of the pool.
func (c *Client) Consume(ctx context.Context, e event.DomainEvent) error {
	frame, ok := EncodeEvent(e)
	if !ok {
		return nil
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		c.log.Debug("Send buffer full, dropping event", "client_id", c.ID)
		return nil
	}
}

// ReadPump decodes inbound frames and forwards them to the handler
// until the connection drops. It owns the read side of the socket.
func (c *Client) ReadPump(handler func(*Client, Frame)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Websocket read error", "client_id", c.ID, "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Debug("Malformed frame", "client_id", c.ID, "error", err)
			continue
		}
		handler(c, frame)
	}
}

// WritePump flushes the send channel to the socket and keeps the
// connection alive with pings. It owns the write side of the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

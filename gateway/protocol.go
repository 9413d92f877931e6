// Package gateway is the connection-facing surface of the realtime
// pool: it upgrades websockets, decodes inbound frames into commands,
// and encodes domain events back onto the wire.
package gateway

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"matchroom/domain"
	"matchroom/domain/event"
)

// Inbound event names.
const (
	EventJoinRoom    = "join-room"
	EventSendMessage = "send-message"
)

// Outbound event names.
const (
	EventRoomAssigned   = "room-assigned"
	EventMessageHistory = "message-history"
	EventUserJoined     = "user-joined"
	EventNewMessage     = "new-message"
	EventUserLeft       = "user-left"
	EventError          = "error"
)

// Frame is the envelope of every websocket message, both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinRoomPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type SendMessagePayload struct {
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	RoomID     string    `json:"roomId"`
	Timestamp  time.Time `json:"timestamp"`
}

type UserPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type MessagePayload struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	Lang       string    `json:"lang,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func toUserPayload(p domain.Participant) UserPayload {
	return UserPayload{ID: p.ID, DisplayName: p.DisplayName}
}

func toMessagePayload(m domain.Message) MessagePayload {
	return MessagePayload{
		ID:         m.ID.String(),
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Message:    m.Content,
		Lang:       m.Lang,
		Timestamp:  m.CreatedAt,
	}
}

// EncodeEvent translates a domain event into its wire frame.
// Events without a wire representation return ok=false.
func EncodeEvent(e event.DomainEvent) (Frame, bool) {
	switch evt := e.(type) {
	case event.RoomAssigned:
		return newFrame(EventRoomAssigned, map[string]any{
			"roomId":    evt.Room,
			"userCount": evt.UserCount,
		})
	case event.MessageHistory:
		return newFrame(EventMessageHistory, map[string]any{
			"messages": lo.Map(evt.Messages, func(m domain.Message, _ int) MessagePayload {
				return toMessagePayload(m)
			}),
		})
	case event.UserJoined:
		return newFrame(EventUserJoined, map[string]any{
			"user":      toUserPayload(evt.User),
			"userCount": evt.UserCount,
		})
	case event.MessagePosted:
		return newFrame(EventNewMessage, map[string]any{
			"message": toMessagePayload(evt.Message),
		})
	case event.UserLeft:
		return newFrame(EventUserLeft, map[string]any{
			"user":      toUserPayload(evt.User),
			"userCount": evt.UserCount,
		})
	case event.OperationFailed:
		return newFrame(EventError, map[string]any{
			"message": evt.Reason,
		})
	default:
		return Frame{}, false
	}
}

func newFrame(name string, data any) (Frame, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, false
	}
	return Frame{Event: name, Data: raw}, true
}

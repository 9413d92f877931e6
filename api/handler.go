// Package api exposes the stateless room pool over HTTP. Unlike the
// websocket surface it holds no connection state: every request is
// validated at the boundary and answered from the store directly.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"matchroom/domain"
	errs "matchroom/errors"
	"matchroom/services"
)

type Handler struct {
	log     *slog.Logger
	service services.IRoomService
}

func NewHandler(log *slog.Logger, service services.IRoomService) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/users", h.ListUsers)
	r.POST("/users", h.JoinRoom)
	r.DELETE("/users", h.LeaveRoom)
	r.GET("/messages", h.ListMessages)
	r.POST("/messages", h.PostMessage)
	r.GET("/stats", h.Stats)
}

type joinRequest struct {
	Username string `json:"username" binding:"required"`
}

type leaveRequest struct {
	Username string `json:"username" binding:"required"`
	RoomID   string `json:"roomId" binding:"required"`
}

type postMessageRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	RoomID   string `json:"roomId"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type roomInfoResponse struct {
	ID        string `json:"id"`
	UserCount int    `json:"userCount"`
	MaxUsers  int    `json:"maxUsers"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(p domain.Participant) userResponse {
	return userResponse{ID: p.ID, Username: p.DisplayName}
}

func toRoomInfo(room *domain.Room) roomInfoResponse {
	return roomInfoResponse{
		ID:        room.ID,
		UserCount: len(room.Members),
		MaxUsers:  room.Capacity,
	}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		RoomID:    m.RoomID,
		Username:  m.SenderName,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// ListUsers answers GET /users?roomId=R. An unknown room id yields an
// empty user list rather than an error.
func (h *Handler) ListUsers(c *gin.Context) {
	roomID := c.Query("roomId")
	users, room := h.service.ListUsers(roomID)
	if room == nil {
		c.JSON(http.StatusOK, gin.H{"users": []userResponse{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": lo.Map(users, func(p domain.Participant, _ int) userResponse {
			return toUserResponse(p)
		}),
		"roomInfo": toRoomInfo(room),
	})
}

// JoinRoom answers POST /users.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errs.ErrEmptyField)
		return
	}

	user, room, err := h.service.Join(req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":     toUserResponse(user),
		"roomInfo": toRoomInfo(room),
	})
}

// LeaveRoom answers DELETE /users. Always succeeds: removing an
// absent member is a no-op.
func (h *Handler) LeaveRoom(c *gin.Context) {
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errs.ErrEmptyField)
		return
	}
	h.service.Leave(req.Username, req.RoomID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMessages answers GET /messages?roomId=R with the bounded
// history, oldest first; empty array when the room is unknown.
func (h *Handler) ListMessages(c *gin.Context) {
	messages := h.service.Messages(c.Query("roomId"))
	c.JSON(http.StatusOK, gin.H{
		"messages": lo.Map(messages, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(m)
		}),
	})
}

// PostMessage answers POST /messages.
func (h *Handler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errs.ErrEmptyField)
		return
	}

	message, err := h.service.PostMessage(req.Username, req.Content, req.RoomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": toMessageResponse(message)})
}

// Stats answers GET /stats with the pool aggregate.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Unexpected failure", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

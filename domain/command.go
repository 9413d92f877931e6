package domain

import (
	"time"
)

// Command is the tagged mutation request consumed by the serialized
// room worker. Every mutation of shared room state flows through one
// of these variants, making the serialization point explicit.
type Command interface {
	ParticipantID() string
}

type JoinCommand struct {
	UserID   string
	UserName string
}

func (c JoinCommand) ParticipantID() string { return c.UserID }

type SendCommand struct {
	SenderID   string
	SenderName string
	Content    string
	Room       string
	CreatedAt  time.Time
}

func (c SendCommand) ParticipantID() string { return c.SenderID }

type LeaveCommand struct {
	UserID string
	Reason string
}

func (c LeaveCommand) ParticipantID() string { return c.UserID }

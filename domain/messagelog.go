package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryLimit bounds the number of messages retained per room.
const HistoryLimit = 100

// MessageLog is the bounded ordered history of a single room.
// Oldest entries are evicted first once the bound is exceeded.
// It is not safe for concurrent use; callers serialize access.
type MessageLog struct {
	limit    int
	messages []Message
}

func NewMessageLog(limit int) *MessageLog {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &MessageLog{limit: limit}
}

// Append stores a message, assigning its id and timestamp when unset,
// and evicts from the front until the bound holds again.
// The stored message is returned for echoing and broadcast.
func (l *MessageLog) Append(message Message) Message {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	l.messages = append(l.messages, message)
	if overflow := len(l.messages) - l.limit; overflow > 0 {
		l.messages = append(l.messages[:0:0], l.messages[overflow:]...)
	}
	return message
}

// Snapshot returns a copy of the buffer, oldest first.
func (l *MessageLog) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *MessageLog) Len() int {
	return len(l.messages)
}

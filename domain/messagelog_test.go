package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMessageLog_Append_AssignsIdentityAndTimestamp(t *testing.T) {
	req := require.New(t)
	log := NewMessageLog(HistoryLimit)

	// When a message without id or timestamp is appended
	stored := log.Append(Message{SenderID: "alice", Content: "hello"})

	// Then the server assigns both
	req.NotEqual(uuid.Nil, stored.ID)
	req.False(stored.CreatedAt.IsZero())
	req.Equal("hello", stored.Content)
	req.Equal(1, log.Len())
}

func TestMessageLog_Append_KeepsCallerIdentity(t *testing.T) {
	req := require.New(t)
	log := NewMessageLog(HistoryLimit)
	id := uuid.New()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	stored := log.Append(Message{ID: id, CreatedAt: at, Content: "hi"})

	req.Equal(id, stored.ID)
	req.Equal(at, stored.CreatedAt)
}

func TestMessageLog_Bound_EvictsOldestFirst(t *testing.T) {
	req := require.New(t)
	log := NewMessageLog(HistoryLimit)

	// When 105 sequential messages are appended
	for i := 0; i < 105; i++ {
		log.Append(Message{SenderID: "alice", Content: fmt.Sprintf("msg-%d", i)})
	}

	// Then only the most recent 100 remain, oldest first
	snapshot := log.Snapshot()
	req.Len(snapshot, HistoryLimit)
	req.Equal("msg-5", snapshot[0].Content)
	req.Equal("msg-104", snapshot[len(snapshot)-1].Content)
}

func TestMessageLog_Bound_DropsExactlyOneAtATime(t *testing.T) {
	req := require.New(t)
	log := NewMessageLog(HistoryLimit)

	for i := 0; i < HistoryLimit; i++ {
		log.Append(Message{Content: fmt.Sprintf("msg-%d", i)})
	}
	req.Equal(HistoryLimit, log.Len())

	// When the 101st message arrives
	log.Append(Message{Content: "msg-100"})

	// Then exactly the oldest entry is gone and order is preserved
	snapshot := log.Snapshot()
	req.Len(snapshot, HistoryLimit)
	req.Equal("msg-1", snapshot[0].Content)
	req.Equal("msg-100", snapshot[len(snapshot)-1].Content)
}

func TestMessageLog_Snapshot_IsACopy(t *testing.T) {
	req := require.New(t)
	log := NewMessageLog(HistoryLimit)
	log.Append(Message{Content: "original"})

	snapshot := log.Snapshot()
	snapshot[0].Content = "mutated"

	req.Equal("original", log.Snapshot()[0].Content)
}

// Package sink provides permanent event sinks living next to the
// room-scoped connection delivery.
package sink

import (
	"context"
	"sync"

	"matchroom/domain"
	"matchroom/domain/event"
)

// Timeline observes every posted message across all rooms and keeps
// the most recent ones in a bounded buffer. It backs the debug
// timeline endpoint and lets tests assert what actually fanned out.
type Timeline struct {
	mu  sync.Mutex
	log *domain.MessageLog
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{log: domain.NewMessageLog(limit)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	if posted, ok := e.(event.MessagePosted); ok {
		t.mu.Lock()
		t.log.Append(posted.Message)
		t.mu.Unlock()
	}
	return nil
}

// Messages returns a copy of the observed timeline, oldest first.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Snapshot()
}

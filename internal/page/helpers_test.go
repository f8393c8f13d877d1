package page

import (
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/google/uuid"
)

// today is the fixed "now" of page tests
var today = time.Date(2025, time.November, 22, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (r *recordingPublisher) Publish(sessionID uuid.UUID, event websocket.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

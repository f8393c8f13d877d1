package websocket

import "github.com/google/uuid"

// EventPublisher delivers page events to the connections of a session
type EventPublisher interface {
	Publish(sessionID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

func (h *Hub) Publish(sessionID uuid.UUID, event Event) {
	h.Broadcast(sessionID, event)
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

func (n *NoOpPublisher) Publish(sessionID uuid.UUID, event Event) {}

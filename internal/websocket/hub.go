package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is what the hub needs from a connection
type ClientInterface interface {
	ID() string
	SessionID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// Hub fans page events out to the connections of one browser session.
// A session may hold several tabs. Safe for concurrent use.
type Hub struct {
	sessions map[uuid.UUID]map[string]ClientInterface
	mu       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]map[string]ClientInterface),
	}
}

// Register adds a client under its session
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionID := client.SessionID()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[string]ClientInterface)
	}
	h.sessions[sessionID][client.ID()] = client

	log.Debug().
		Str("session_id", sessionID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionID := client.SessionID()
	clients, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}

	log.Debug().
		Str("session_id", sessionID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every client of a session
func (h *Hub) Broadcast(sessionID uuid.UUID, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	clients := h.snapshot(sessionID)
	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("session_id", sessionID.String()).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("session_id", sessionID.String()).
		Str("event_type", event.Type).
		Int("client_count", len(clients)).
		Msg("Broadcast event")
}

// CloseSession closes and drops every client of an expired session
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	h.mu.Lock()
	clients := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
	if len(clients) > 0 {
		log.Debug().
			Str("session_id", sessionID.String()).
			Int("client_count", len(clients)).
			Msg("Closed WebSocket clients of expired session")
	}
}

// snapshot copies the session's clients so sends happen without the lock
func (h *Hub) snapshot(sessionID uuid.UUID) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.sessions[sessionID]
	out := make([]ClientInterface, 0, len(clients))
	for _, c := range clients {
		out = append(out, c)
	}
	return out
}

// ClientCount returns the number of clients connected for a session
func (h *Hub) ClientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// TotalClientCount returns the number of connected clients across sessions
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.sessions {
		total += len(clients)
	}
	return total
}

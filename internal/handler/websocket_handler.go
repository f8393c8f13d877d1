package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler streams a session's page events to the browser
type WebSocketHandler struct {
	hub            *websocket.Hub
	validator      middleware.TokenValidator
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a WebSocketHandler. A nil validator accepts
// connections without a token, matching the page routes when Auth0 is off.
func NewWebSocketHandler(hub *websocket.Hub, validator middleware.TokenValidator, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// same-origin or non-browser clients
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles GET /api/v1/pages/ws. Browsers cannot set headers on the
// upgrade request, so the access token travels in the token query parameter.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	sessionID := middleware.GetSessionID(c)
	if sessionID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	if h.validator != nil {
		token := c.QueryParam("token")
		if token == "" {
			log.Debug().Msg("WebSocket connection rejected: missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		if _, err := h.validator.ValidateToken(c.Request().Context(), token); err != nil {
			log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, sessionID, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("session_id", sessionID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}

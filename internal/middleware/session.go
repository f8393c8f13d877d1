package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionCookie names the cookie that binds a browser to its page session
const SessionCookie = "fortuna_admin_session"

// SessionIDKey is the context key for the page session id
const SessionIDKey contextKey = "session_id"

// SessionConfig configures the session cookie
type SessionConfig struct {
	// TTL is the cookie lifetime, refreshed on every request
	TTL time.Duration
	// Secure restricts the cookie to HTTPS
	Secure bool
}

// Session assigns each browser a session id, reusing the one in its cookie
// when it is a valid uuid
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := uuid.Nil
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed
				}
			}
			if id == uuid.Nil {
				id = uuid.New()
				log.Debug().Str("session_id", id.String()).Msg("New page session")
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    id.String(),
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(c.Request().Context(), SessionIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetSessionID returns the page session id, uuid.Nil outside Session
func GetSessionID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(SessionIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

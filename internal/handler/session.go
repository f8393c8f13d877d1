package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionProvider resolves the pages of a browser session
type SessionProvider interface {
	Get(id uuid.UUID) *page.Session
}

// currentSession returns the caller's session, nil when the request did not
// pass the session middleware
func currentSession(c echo.Context, sessions SessionProvider) *page.Session {
	id := middleware.GetSessionID(c)
	if id == uuid.Nil {
		return nil
	}
	return sessions.Get(id)
}

func sessionRequired(c echo.Context) error {
	return NewUnauthorizedError(c, "Session required")
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError(c, "Invalid "+name, []domain.FieldError{
			{Field: name, Message: "Must be a positive integer"},
		})
	}
	return id, nil
}

// withState runs op and answers with the page state, or the mapped error
// when op fails
func withState[S any](c echo.Context, op func() error, state func() S) error {
	if err := op(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, state())
}

// logged wraps a page write so its success is logged with the session and,
// when known, the record id
func logged(c echo.Context, pageName, action string, id int64, op func() error) func() error {
	return func() error {
		if err := op(); err != nil {
			return err
		}
		evt := log.Info().
			Str("session_id", middleware.GetSessionID(c).String()).
			Str("page", pageName).
			Str("action", action)
		if id > 0 {
			evt = evt.Int64("id", id)
		}
		evt.Msg("Page write succeeded")
		return nil
	}
}

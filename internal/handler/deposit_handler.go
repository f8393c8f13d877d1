package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/labstack/echo/v4"
)

// DepositHandler serves the deposit entry page
type DepositHandler struct {
	sessions SessionProvider
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(sessions SessionProvider) *DepositHandler {
	return &DepositHandler{sessions: sessions}
}

func (h *DepositHandler) pageFor(c echo.Context) *page.DepositsPage {
	if s := currentSession(c, h.sessions); s != nil {
		return s.Deposits
	}
	return nil
}

// GetState handles GET /deposits
func (h *DepositHandler) GetState(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, p.State())
}

// Load handles POST /deposits/load
func (h *DepositHandler) Load(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return p.Load(c.Request().Context()) }, p.State)
}

// SetDraft handles PUT /deposits/draft
func (h *DepositHandler) SetDraft(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	var draft domain.DepositDraft
	if err := c.Bind(&draft); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return p.SetDraft(draft) }, p.State)
}

// Save handles POST /deposits/save
func (h *DepositHandler) Save(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	save := logged(c, "deposits", "create", 0, func() error { return p.Save(c.Request().Context()) })
	return withState(c, save, p.State)
}

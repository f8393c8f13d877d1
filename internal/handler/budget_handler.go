package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/page"
	"github.com/labstack/echo/v4"
)

// BudgetHandler serves the budgets page
type BudgetHandler struct {
	sessions SessionProvider
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(sessions SessionProvider) *BudgetHandler {
	return &BudgetHandler{sessions: sessions}
}

func (h *BudgetHandler) pageFor(c echo.Context) *page.BudgetsPage {
	if s := currentSession(c, h.sessions); s != nil {
		return s.Budgets
	}
	return nil
}

// GetState handles GET /budgets
func (h *BudgetHandler) GetState(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return c.JSON(http.StatusOK, p.State())
}

// Load handles POST /budgets/load
func (h *BudgetHandler) Load(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, func() error { return p.Load(c.Request().Context()) }, p.State)
}

// SetFilter handles PUT /budgets/filter and reloads the period
func (h *BudgetHandler) SetFilter(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	var filter domain.BudgetFilter
	if err := c.Bind(&filter); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return p.SetFilter(c.Request().Context(), filter) }, p.State)
}

// StartNew handles POST /budgets/new
func (h *BudgetHandler) StartNew(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	return withState(c, p.StartNew, p.State)
}

// SetDraft handles PUT /budgets/draft
func (h *BudgetHandler) SetDraft(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	var draft domain.BudgetUpsert
	if err := c.Bind(&draft); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	return withState(c, func() error { return p.SetDraft(draft) }, p.State)
}

// Save handles POST /budgets/save
func (h *BudgetHandler) Save(c echo.Context) error {
	p := h.pageFor(c)
	if p == nil {
		return sessionRequired(c)
	}
	save := logged(c, "budgets", "upsert", 0, func() error { return p.Save(c.Request().Context()) })
	return withState(c, save, p.State)
}
